package sections

import (
	"encoding/json"
	"fmt"

	"dearday/common"
	"dearday/models"
)

// Key identifies one content block of a wedding page.
type Key string

const (
	KeyMain              Key = "main"
	KeyShareLink         Key = "shareLink"
	KeyWeddingInfo       Key = "weddingInfo"
	KeyFamilyInfo        Key = "familyInfo"
	KeyInvitationMessage Key = "invitationMessage"
	KeyCoupleIntro       Key = "coupleIntro"
	KeyParentsIntro      Key = "parentsIntro"
	KeyAccountInfo       Key = "accountInfo"
	KeyLocationInfo      Key = "locationInfo"
	KeyThemeFont         Key = "themeFont"
	KeyLoadingScreen     Key = "loadingScreen"
	KeyGallery           Key = "gallery"
	KeyFlipbook          Key = "flipbook"
)

// Keys is the registry enumeration. Its order is the default display
// order assigned when a wedding (or an applied snapshot) is created.
var Keys = []Key{
	KeyMain,
	KeyShareLink,
	KeyWeddingInfo,
	KeyFamilyInfo,
	KeyInvitationMessage,
	KeyCoupleIntro,
	KeyParentsIntro,
	KeyAccountInfo,
	KeyLocationInfo,
	KeyThemeFont,
	KeyLoadingScreen,
	KeyGallery,
	KeyFlipbook,
}

func Valid(key string) bool {
	for _, k := range Keys {
		if string(k) == key {
			return true
		}
	}
	return false
}

// Section is one typed section payload. Columns returns the flat
// storage columns the section owns, keyed by column name; fields left
// unset map to nil so a patch clears them. The column sets of any two
// sections are disjoint.
type Section interface {
	Key() Key
	Columns() map[string]interface{}
}

// Decode parses raw JSON into the typed payload for key. An unknown
// key is an InvalidSection error, never a silent no-op.
func Decode(key string, raw json.RawMessage) (Section, error) {
	sec := newSection(Key(key))
	if sec == nil {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidSection, key)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, sec); err != nil {
			return nil, fmt.Errorf("%w: section %s: %v", common.ErrValidation, key, err)
		}
	}
	return sec, nil
}

func newSection(k Key) Section {
	switch k {
	case KeyMain:
		return &Main{}
	case KeyShareLink:
		return &ShareLink{}
	case KeyWeddingInfo:
		return &WeddingInfo{}
	case KeyFamilyInfo:
		return &FamilyInfo{}
	case KeyInvitationMessage:
		return &InvitationMessage{}
	case KeyCoupleIntro:
		return &CoupleIntro{}
	case KeyParentsIntro:
		return &ParentsIntro{}
	case KeyAccountInfo:
		return &AccountInfo{}
	case KeyLocationInfo:
		return &LocationInfo{}
	case KeyThemeFont:
		return &ThemeFont{}
	case KeyLoadingScreen:
		return &LoadingScreen{}
	case KeyGallery:
		return &Gallery{}
	case KeyFlipbook:
		return &Flipbook{}
	}
	return nil
}

// Set is a partial or full "sections" object: a subset of registry
// keys with their payloads.
type Set map[Key]Section

// UnmarshalJSON decodes each present key through the registry;
// a single unknown key fails the whole set.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: sections: %v", common.ErrValidation, err)
	}
	out := make(Set, len(raw))
	for key, payload := range raw {
		sec, err := Decode(key, payload)
		if err != nil {
			return err
		}
		out[Key(key)] = sec
	}
	*s = out
	return nil
}

// Columns merges the flat column patches of every section present.
// Sections own disjoint column sets, so merge order is irrelevant.
func (s Set) Columns() map[string]interface{} {
	merged := map[string]interface{}{}
	for _, sec := range s {
		for col, val := range sec.Columns() {
			merged[col] = val
		}
	}
	return merged
}

// FromRow projects a detail row into the full nested sections object.
func FromRow(row *models.WeddingDetail) Set {
	out := make(Set, len(Keys))
	for _, k := range Keys {
		out[k] = fromRow(k, row)
	}
	return out
}

// ForKey projects the single section owned by k out of row.
func ForKey(k Key, row *models.WeddingDetail) Section {
	return fromRow(k, row)
}
