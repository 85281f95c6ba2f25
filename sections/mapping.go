package sections

import "dearday/models"

// One type per section, tagged with the public field names. Columns()
// is the nested→flat direction of the mapping in the registry
// contract; fromRow is flat→nested. Both sides list every owned
// column so the two stay in lockstep.

type Main struct {
	PosterStyle *string `json:"posterStyle"`
}

func (Main) Key() Key { return KeyMain }

func (m Main) Columns() map[string]interface{} {
	return map[string]interface{}{
		"main_poster_style": m.PosterStyle,
	}
}

type ShareLink struct {
	ShareTitle *string `json:"shareTitle"`
}

func (ShareLink) Key() Key { return KeyShareLink }

func (s ShareLink) Columns() map[string]interface{} {
	return map[string]interface{}{
		"share_link_title": s.ShareTitle,
	}
}

type WeddingInfo struct {
	GroomLastName     *string `json:"groomLastName"`
	GroomFirstName    *string `json:"groomFirstName"`
	BrideLastName     *string `json:"brideLastName"`
	BrideFirstName    *string `json:"brideFirstName"`
	NameOrderType     *string `json:"nameOrderType"`
	WeddingYear       *string `json:"weddingYear"`
	WeddingMonth      *string `json:"weddingMonth"`
	WeddingDay        *string `json:"weddingDay"`
	WeddingTimePeriod *string `json:"weddingTimePeriod"`
	WeddingHour       *string `json:"weddingHour"`
	WeddingMinute     *string `json:"weddingMinute"`
	WeddingHallName   *string `json:"weddingHallName"`
	WeddingHallFloor  *string `json:"weddingHallFloor"`
}

func (WeddingInfo) Key() Key { return KeyWeddingInfo }

func (w WeddingInfo) Columns() map[string]interface{} {
	return map[string]interface{}{
		"wedding_info_groom_last_name":  w.GroomLastName,
		"wedding_info_groom_first_name": w.GroomFirstName,
		"wedding_info_bride_last_name":  w.BrideLastName,
		"wedding_info_bride_first_name": w.BrideFirstName,
		"wedding_info_name_order_type":  w.NameOrderType,
		"wedding_info_year":             w.WeddingYear,
		"wedding_info_month":            w.WeddingMonth,
		"wedding_info_day":              w.WeddingDay,
		"wedding_info_time_period":      w.WeddingTimePeriod,
		"wedding_info_hour":             w.WeddingHour,
		"wedding_info_minute":           w.WeddingMinute,
		"wedding_info_hall_name":        w.WeddingHallName,
		"wedding_info_hall_floor":       w.WeddingHallFloor,
	}
}

type FamilyInfo struct {
	GroomFatherName     *string `json:"groomFatherName"`
	GroomFatherDeceased *bool   `json:"groomFatherDeceased"`
	GroomMotherName     *string `json:"groomMotherName"`
	GroomMotherDeceased *bool   `json:"groomMotherDeceased"`
	GroomRankName       *string `json:"groomRankName"`
	BrideFatherName     *string `json:"brideFatherName"`
	BrideFatherDeceased *bool   `json:"brideFatherDeceased"`
	BrideMotherName     *string `json:"brideMotherName"`
	BrideMotherDeceased *bool   `json:"brideMotherDeceased"`
	BrideRankName       *string `json:"brideRankName"`
}

func (FamilyInfo) Key() Key { return KeyFamilyInfo }

func (f FamilyInfo) Columns() map[string]interface{} {
	return map[string]interface{}{
		"family_info_groom_father_name":     f.GroomFatherName,
		"family_info_groom_father_deceased": f.GroomFatherDeceased,
		"family_info_groom_mother_name":     f.GroomMotherName,
		"family_info_groom_mother_deceased": f.GroomMotherDeceased,
		"family_info_groom_rank_name":       f.GroomRankName,
		"family_info_bride_father_name":     f.BrideFatherName,
		"family_info_bride_father_deceased": f.BrideFatherDeceased,
		"family_info_bride_mother_name":     f.BrideMotherName,
		"family_info_bride_mother_deceased": f.BrideMotherDeceased,
		"family_info_bride_rank_name":       f.BrideRankName,
	}
}

type InvitationMessage struct {
	Title   *string `json:"title"`
	Message *string `json:"message"`
}

func (InvitationMessage) Key() Key { return KeyInvitationMessage }

func (i InvitationMessage) Columns() map[string]interface{} {
	return map[string]interface{}{
		"invitation_message_title":   i.Title,
		"invitation_message_content": i.Message,
	}
}

type CoupleIntro struct {
	Title      *string `json:"title"`
	GroomIntro *string `json:"groomIntro"`
	BrideIntro *string `json:"brideIntro"`
}

func (CoupleIntro) Key() Key { return KeyCoupleIntro }

func (ci CoupleIntro) Columns() map[string]interface{} {
	return map[string]interface{}{
		"couple_intro_title":         ci.Title,
		"couple_intro_groom_message": ci.GroomIntro,
		"couple_intro_bride_message": ci.BrideIntro,
	}
}

type ParentsIntro struct {
	Title   *string `json:"title"`
	Message *string `json:"message"`
}

func (ParentsIntro) Key() Key { return KeyParentsIntro }

func (p ParentsIntro) Columns() map[string]interface{} {
	return map[string]interface{}{
		"parents_intro_title":   p.Title,
		"parents_intro_message": p.Message,
	}
}

type AccountInfo struct {
	Title               *string `json:"title"`
	Message             *string `json:"message"`
	GroomBankName       *string `json:"groomBankName"`
	GroomNumber         *string `json:"groomNumber"`
	GroomHolder         *string `json:"groomHolder"`
	GroomFatherBankName *string `json:"groomFatherBankName"`
	GroomFatherNumber   *string `json:"groomFatherNumber"`
	GroomFatherHolder   *string `json:"groomFatherHolder"`
	GroomMotherBankName *string `json:"groomMotherBankName"`
	GroomMotherNumber   *string `json:"groomMotherNumber"`
	GroomMotherHolder   *string `json:"groomMotherHolder"`
	BrideBankName       *string `json:"brideBankName"`
	BrideNumber         *string `json:"brideNumber"`
	BrideHolder         *string `json:"brideHolder"`
	BrideFatherBankName *string `json:"brideFatherBankName"`
	BrideFatherNumber   *string `json:"brideFatherNumber"`
	BrideFatherHolder   *string `json:"brideFatherHolder"`
	BrideMotherBankName *string `json:"brideMotherBankName"`
	BrideMotherNumber   *string `json:"brideMotherNumber"`
	BrideMotherHolder   *string `json:"brideMotherHolder"`
}

func (AccountInfo) Key() Key { return KeyAccountInfo }

func (a AccountInfo) Columns() map[string]interface{} {
	return map[string]interface{}{
		"account_info_title":                  a.Title,
		"account_info_message":                a.Message,
		"account_info_groom_bank_name":        a.GroomBankName,
		"account_info_groom_number":           a.GroomNumber,
		"account_info_groom_holder":           a.GroomHolder,
		"account_info_groom_father_bank_name": a.GroomFatherBankName,
		"account_info_groom_father_number":    a.GroomFatherNumber,
		"account_info_groom_father_holder":    a.GroomFatherHolder,
		"account_info_groom_mother_bank_name": a.GroomMotherBankName,
		"account_info_groom_mother_number":    a.GroomMotherNumber,
		"account_info_groom_mother_holder":    a.GroomMotherHolder,
		"account_info_bride_bank_name":        a.BrideBankName,
		"account_info_bride_number":           a.BrideNumber,
		"account_info_bride_holder":           a.BrideHolder,
		"account_info_bride_father_bank_name": a.BrideFatherBankName,
		"account_info_bride_father_number":    a.BrideFatherNumber,
		"account_info_bride_father_holder":    a.BrideFatherHolder,
		"account_info_bride_mother_bank_name": a.BrideMotherBankName,
		"account_info_bride_mother_number":    a.BrideMotherNumber,
		"account_info_bride_mother_holder":    a.BrideMotherHolder,
	}
}

type LocationInfo struct {
	Address           *string `json:"address"`
	AddressDetail     *string `json:"addressDetail"`
	GuideMessage      *string `json:"guideMessage"`
	Transport1Title   *string `json:"transport1Title"`
	Transport1Message *string `json:"transport1Message"`
	Transport2Title   *string `json:"transport2Title"`
	Transport2Message *string `json:"transport2Message"`
	Transport3Title   *string `json:"transport3Title"`
	Transport3Message *string `json:"transport3Message"`
	Transport4Title   *string `json:"transport4Title"`
	Transport4Message *string `json:"transport4Message"`
	Transport5Title   *string `json:"transport5Title"`
	Transport5Message *string `json:"transport5Message"`
}

func (LocationInfo) Key() Key { return KeyLocationInfo }

func (l LocationInfo) Columns() map[string]interface{} {
	return map[string]interface{}{
		"location_info_address":            l.Address,
		"location_info_address_detail":     l.AddressDetail,
		"location_info_guide_message":      l.GuideMessage,
		"location_info_transport1_title":   l.Transport1Title,
		"location_info_transport1_message": l.Transport1Message,
		"location_info_transport2_title":   l.Transport2Title,
		"location_info_transport2_message": l.Transport2Message,
		"location_info_transport3_title":   l.Transport3Title,
		"location_info_transport3_message": l.Transport3Message,
		"location_info_transport4_title":   l.Transport4Title,
		"location_info_transport4_message": l.Transport4Message,
		"location_info_transport5_title":   l.Transport5Title,
		"location_info_transport5_message": l.Transport5Message,
	}
}

type ThemeFont struct {
	FontName        *string `json:"fontName"`
	FontSize        *int    `json:"fontSize"`
	BackgroundColor *string `json:"backgroundColor"`
	AccentColor     *string `json:"accentColor"`
	ZoomPreventYn   *bool   `json:"zoomPreventYn"`
}

func (ThemeFont) Key() Key { return KeyThemeFont }

func (t ThemeFont) Columns() map[string]interface{} {
	return map[string]interface{}{
		"theme_font_name":             t.FontName,
		"theme_font_size":             t.FontSize,
		"theme_font_background_color": t.BackgroundColor,
		"theme_font_accent_color":     t.AccentColor,
		"theme_font_zoom_prevent_yn":  t.ZoomPreventYn,
	}
}

type LoadingScreen struct {
	Design *string `json:"design"`
}

func (LoadingScreen) Key() Key { return KeyLoadingScreen }

func (l LoadingScreen) Columns() map[string]interface{} {
	return map[string]interface{}{
		"loading_screen_style": l.Design,
	}
}

type Gallery struct {
	Title *string `json:"title"`
}

func (Gallery) Key() Key { return KeyGallery }

func (g Gallery) Columns() map[string]interface{} {
	return map[string]interface{}{
		"gallery_title": g.Title,
	}
}

type Flipbook struct {
	Title   *string `json:"title"`
	Message *string `json:"message"`
}

func (Flipbook) Key() Key { return KeyFlipbook }

func (f Flipbook) Columns() map[string]interface{} {
	return map[string]interface{}{
		"flipbook_title":   f.Title,
		"flipbook_message": f.Message,
	}
}

func fromRow(k Key, row *models.WeddingDetail) Section {
	switch k {
	case KeyMain:
		return &Main{PosterStyle: row.MainPosterStyle}
	case KeyShareLink:
		return &ShareLink{ShareTitle: row.ShareLinkTitle}
	case KeyWeddingInfo:
		return &WeddingInfo{
			GroomLastName:     row.WeddingInfoGroomLastName,
			GroomFirstName:    row.WeddingInfoGroomFirstName,
			BrideLastName:     row.WeddingInfoBrideLastName,
			BrideFirstName:    row.WeddingInfoBrideFirstName,
			NameOrderType:     row.WeddingInfoNameOrderType,
			WeddingYear:       row.WeddingInfoYear,
			WeddingMonth:      row.WeddingInfoMonth,
			WeddingDay:        row.WeddingInfoDay,
			WeddingTimePeriod: row.WeddingInfoTimePeriod,
			WeddingHour:       row.WeddingInfoHour,
			WeddingMinute:     row.WeddingInfoMinute,
			WeddingHallName:   row.WeddingInfoHallName,
			WeddingHallFloor:  row.WeddingInfoHallFloor,
		}
	case KeyFamilyInfo:
		return &FamilyInfo{
			GroomFatherName:     row.FamilyInfoGroomFatherName,
			GroomFatherDeceased: row.FamilyInfoGroomFatherDeceased,
			GroomMotherName:     row.FamilyInfoGroomMotherName,
			GroomMotherDeceased: row.FamilyInfoGroomMotherDeceased,
			GroomRankName:       row.FamilyInfoGroomRankName,
			BrideFatherName:     row.FamilyInfoBrideFatherName,
			BrideFatherDeceased: row.FamilyInfoBrideFatherDeceased,
			BrideMotherName:     row.FamilyInfoBrideMotherName,
			BrideMotherDeceased: row.FamilyInfoBrideMotherDeceased,
			BrideRankName:       row.FamilyInfoBrideRankName,
		}
	case KeyInvitationMessage:
		return &InvitationMessage{
			Title:   row.InvitationMessageTitle,
			Message: row.InvitationMessageContent,
		}
	case KeyCoupleIntro:
		return &CoupleIntro{
			Title:      row.CoupleIntroTitle,
			GroomIntro: row.CoupleIntroGroomMessage,
			BrideIntro: row.CoupleIntroBrideMessage,
		}
	case KeyParentsIntro:
		return &ParentsIntro{
			Title:   row.ParentsIntroTitle,
			Message: row.ParentsIntroMessage,
		}
	case KeyAccountInfo:
		return &AccountInfo{
			Title:               row.AccountInfoTitle,
			Message:             row.AccountInfoMessage,
			GroomBankName:       row.AccountInfoGroomBankName,
			GroomNumber:         row.AccountInfoGroomNumber,
			GroomHolder:         row.AccountInfoGroomHolder,
			GroomFatherBankName: row.AccountInfoGroomFatherBankName,
			GroomFatherNumber:   row.AccountInfoGroomFatherNumber,
			GroomFatherHolder:   row.AccountInfoGroomFatherHolder,
			GroomMotherBankName: row.AccountInfoGroomMotherBankName,
			GroomMotherNumber:   row.AccountInfoGroomMotherNumber,
			GroomMotherHolder:   row.AccountInfoGroomMotherHolder,
			BrideBankName:       row.AccountInfoBrideBankName,
			BrideNumber:         row.AccountInfoBrideNumber,
			BrideHolder:         row.AccountInfoBrideHolder,
			BrideFatherBankName: row.AccountInfoBrideFatherBankName,
			BrideFatherNumber:   row.AccountInfoBrideFatherNumber,
			BrideFatherHolder:   row.AccountInfoBrideFatherHolder,
			BrideMotherBankName: row.AccountInfoBrideMotherBankName,
			BrideMotherNumber:   row.AccountInfoBrideMotherNumber,
			BrideMotherHolder:   row.AccountInfoBrideMotherHolder,
		}
	case KeyLocationInfo:
		return &LocationInfo{
			Address:           row.LocationInfoAddress,
			AddressDetail:     row.LocationInfoAddressDetail,
			GuideMessage:      row.LocationInfoGuideMessage,
			Transport1Title:   row.LocationInfoTransport1Title,
			Transport1Message: row.LocationInfoTransport1Message,
			Transport2Title:   row.LocationInfoTransport2Title,
			Transport2Message: row.LocationInfoTransport2Message,
			Transport3Title:   row.LocationInfoTransport3Title,
			Transport3Message: row.LocationInfoTransport3Message,
			Transport4Title:   row.LocationInfoTransport4Title,
			Transport4Message: row.LocationInfoTransport4Message,
			Transport5Title:   row.LocationInfoTransport5Title,
			Transport5Message: row.LocationInfoTransport5Message,
		}
	case KeyThemeFont:
		return &ThemeFont{
			FontName:        row.ThemeFontName,
			FontSize:        row.ThemeFontSize,
			BackgroundColor: row.ThemeFontBackgroundColor,
			AccentColor:     row.ThemeFontAccentColor,
			ZoomPreventYn:   row.ThemeFontZoomPreventYn,
		}
	case KeyLoadingScreen:
		return &LoadingScreen{Design: row.LoadingScreenStyle}
	case KeyGallery:
		return &Gallery{Title: row.GalleryTitle}
	case KeyFlipbook:
		return &Flipbook{
			Title:   row.FlipbookTitle,
			Message: row.FlipbookMessage,
		}
	}
	return nil
}
