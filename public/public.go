package public

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"

	"dearday/media"
	"dearday/models"
	"dearday/sections"
)

type PublicModule struct {
	db    *gorm.DB
	media *media.MediaModule
}

// markdown renderer for guest-facing free-text fields
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

func NewPublicModule(db *gorm.DB, mediaModule *media.MediaModule) *PublicModule {
	return &PublicModule{db: db, media: mediaModule}
}

func (p *PublicModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/invite/:weddingId", p.invitePage)
}

type sectionView struct {
	Key     string
	Heading string
	Lines   []string
	HTML    template.HTML
	Images  []string
}

type pageView struct {
	Title           string
	FontName        string
	FontSize        int
	BackgroundColor string
	AccentColor     string
	Sections        []sectionView
}

var inviteTemplate = template.Must(template.New("invite").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { font-family: {{.FontName}}; font-size: {{.FontSize}}px; background: {{.BackgroundColor}}; margin: 0; }
section { max-width: 480px; margin: 0 auto; padding: 2rem 1rem; text-align: center; }
h2 { color: {{.AccentColor}}; }
img { max-width: 100%; border-radius: 4px; margin: 0.25rem 0; }
</style>
</head>
<body>
{{range .Sections}}
<section class="{{.Key}}">
{{if .Heading}}<h2>{{.Heading}}</h2>{{end}}
{{range .Lines}}<p>{{.}}</p>
{{end}}{{if .HTML}}<div>{{.HTML}}</div>{{end}}
{{range .Images}}<img src="{{.}}" alt="">
{{end}}</section>
{{end}}
</body>
</html>
`))

// invitePage renders the published snapshot of a wedding. Drafts are
// never visible here; a wedding that was never applied reads as not
// found.
func (p *PublicModule) invitePage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("weddingId"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}
	weddingID := uint(id)

	var wedding models.Wedding
	if err := p.db.First(&wedding, weddingID).Error; err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}
	var detail models.WeddingDetail
	err = p.db.Where("wedding_id = ? AND lifecycle = ?", weddingID, models.LifecycleApplied).First(&detail).Error
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}
	var settings []models.SectionSetting
	err = p.db.Where("wedding_id = ? AND lifecycle = ? AND visible = ?", weddingID, models.LifecycleApplied, true).
		Order("display_order asc, section_key asc").
		Find(&settings).Error
	if err != nil {
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	mediaRows, err := p.media.List(weddingID, models.LifecycleApplied)
	if err != nil {
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	view := pageView{
		Title:           wedding.Title,
		FontName:        stringOr(detail.ThemeFontName, "serif"),
		FontSize:        intOr(detail.ThemeFontSize, 16),
		BackgroundColor: stringOr(detail.ThemeFontBackgroundColor, "#FFFFFF"),
		AccentColor:     stringOr(detail.ThemeFontAccentColor, "#C9A96A"),
	}
	for _, s := range settings {
		if sv, ok := p.buildSection(sections.Key(s.SectionKey), &detail, mediaRows); ok {
			view.Sections = append(view.Sections, sv)
		}
	}

	var buf bytes.Buffer
	if err := inviteTemplate.Execute(&buf, view); err != nil {
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// buildSection turns one visible section into its page block. Purely
// structural sections like themeFont and loadingScreen render nothing
// themselves.
func (p *PublicModule) buildSection(key sections.Key, detail *models.WeddingDetail, mediaRows []models.Media) (sectionView, bool) {
	sv := sectionView{Key: string(key)}
	switch key {
	case sections.KeyMain:
		sv.Images = p.imageURLs(mediaRows, "mainImage")
		sv.Lines = appendLine(sv.Lines, coupleLine(detail))
	case sections.KeyWeddingInfo:
		sv.Lines = appendLine(sv.Lines, coupleLine(detail))
		sv.Lines = appendLine(sv.Lines, dateLine(detail))
		sv.Lines = appendLine(sv.Lines, joinNonEmpty(" ", detail.WeddingInfoHallName, detail.WeddingInfoHallFloor))
	case sections.KeyFamilyInfo:
		sv.Lines = appendLine(sv.Lines, familyLine("groom", detail.FamilyInfoGroomFatherName, detail.FamilyInfoGroomMotherName, detail.FamilyInfoGroomRankName))
		sv.Lines = appendLine(sv.Lines, familyLine("bride", detail.FamilyInfoBrideFatherName, detail.FamilyInfoBrideMotherName, detail.FamilyInfoBrideRankName))
	case sections.KeyInvitationMessage:
		sv.Heading = stringOr(detail.InvitationMessageTitle, "")
		sv.HTML = renderMarkdown(detail.InvitationMessageContent)
	case sections.KeyCoupleIntro:
		sv.Heading = stringOr(detail.CoupleIntroTitle, "")
		sv.HTML = renderMarkdown(joinMarkdown(detail.CoupleIntroGroomMessage, detail.CoupleIntroBrideMessage))
	case sections.KeyParentsIntro:
		sv.Heading = stringOr(detail.ParentsIntroTitle, "")
		sv.HTML = renderMarkdown(detail.ParentsIntroMessage)
	case sections.KeyAccountInfo:
		sv.Heading = stringOr(detail.AccountInfoTitle, "")
		sv.HTML = renderMarkdown(detail.AccountInfoMessage)
		sv.Lines = accountLines(detail)
	case sections.KeyLocationInfo:
		sv.Lines = appendLine(sv.Lines, joinNonEmpty(" ", detail.LocationInfoAddress, detail.LocationInfoAddressDetail))
		sv.HTML = renderMarkdown(detail.LocationInfoGuideMessage)
		sv.Lines = append(sv.Lines, transportLines(detail)...)
	case sections.KeyGallery:
		sv.Heading = stringOr(detail.GalleryTitle, "")
		sv.Images = p.imageURLs(mediaRows, "gallery")
	case sections.KeyFlipbook:
		sv.Heading = stringOr(detail.FlipbookTitle, "")
		sv.HTML = renderMarkdown(detail.FlipbookMessage)
		sv.Images = p.imageURLs(mediaRows, "flipbook")
	default:
		// shareLink, themeFont, loadingScreen carry no page block
		return sectionView{}, false
	}
	if sv.Heading == "" && len(sv.Lines) == 0 && sv.HTML == "" && len(sv.Images) == 0 {
		return sectionView{}, false
	}
	return sv, true
}

// imageURLs maps stored file paths to the public /uploads routes,
// preferring the edited version of each image.
func (p *PublicModule) imageURLs(mediaRows []models.Media, imageType string) []string {
	var urls []string
	for _, rec := range mediaRows {
		if rec.ImageType != imageType {
			continue
		}
		path := rec.OriginalURL
		if rec.EditedURL != nil {
			path = *rec.EditedURL
		}
		rel, err := filepath.Rel(p.media.Root(), path)
		if err != nil {
			continue
		}
		urls = append(urls, "/uploads/"+filepath.ToSlash(rel))
	}
	return urls
}

func renderMarkdown(source *string) template.HTML {
	if source == nil || *source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(*source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(*source))
	}
	return template.HTML(buf.String())
}

func joinMarkdown(parts ...*string) *string {
	var kept []string
	for _, part := range parts {
		if part != nil && *part != "" {
			kept = append(kept, *part)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	joined := strings.Join(kept, "\n\n")
	return &joined
}

func coupleLine(detail *models.WeddingDetail) string {
	groom := joinNonEmpty("", detail.WeddingInfoGroomLastName, detail.WeddingInfoGroomFirstName)
	bride := joinNonEmpty("", detail.WeddingInfoBrideLastName, detail.WeddingInfoBrideFirstName)
	if groom == "" && bride == "" {
		return ""
	}
	if stringOr(detail.WeddingInfoNameOrderType, "groomFirst") == "brideFirst" {
		groom, bride = bride, groom
	}
	return joinStrings(" & ", groom, bride)
}

func dateLine(detail *models.WeddingDetail) string {
	date := joinStrings(".", stringOr(detail.WeddingInfoYear, ""), stringOr(detail.WeddingInfoMonth, ""), stringOr(detail.WeddingInfoDay, ""))
	clock := joinStrings(":", stringOr(detail.WeddingInfoHour, ""), stringOr(detail.WeddingInfoMinute, ""))
	if clock != "" && detail.WeddingInfoTimePeriod != nil {
		clock = *detail.WeddingInfoTimePeriod + " " + clock
	}
	return joinStrings(" ", date, clock)
}

func familyLine(side string, father, mother, rank *string) string {
	parents := joinStrings(" · ", stringOr(father, ""), stringOr(mother, ""))
	if parents == "" {
		return ""
	}
	line := parents
	if rank != nil && *rank != "" {
		line = fmt.Sprintf("%s (%s %s)", parents, *rank, side)
	}
	return line
}

func accountLines(detail *models.WeddingDetail) []string {
	type entry struct {
		bank, number, holder *string
	}
	var lines []string
	for _, e := range []entry{
		{detail.AccountInfoGroomBankName, detail.AccountInfoGroomNumber, detail.AccountInfoGroomHolder},
		{detail.AccountInfoGroomFatherBankName, detail.AccountInfoGroomFatherNumber, detail.AccountInfoGroomFatherHolder},
		{detail.AccountInfoGroomMotherBankName, detail.AccountInfoGroomMotherNumber, detail.AccountInfoGroomMotherHolder},
		{detail.AccountInfoBrideBankName, detail.AccountInfoBrideNumber, detail.AccountInfoBrideHolder},
		{detail.AccountInfoBrideFatherBankName, detail.AccountInfoBrideFatherNumber, detail.AccountInfoBrideFatherHolder},
		{detail.AccountInfoBrideMotherBankName, detail.AccountInfoBrideMotherNumber, detail.AccountInfoBrideMotherHolder},
	} {
		line := joinNonEmpty(" ", e.bank, e.number, e.holder)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func transportLines(detail *models.WeddingDetail) []string {
	type entry struct {
		title, message *string
	}
	var lines []string
	for _, e := range []entry{
		{detail.LocationInfoTransport1Title, detail.LocationInfoTransport1Message},
		{detail.LocationInfoTransport2Title, detail.LocationInfoTransport2Message},
		{detail.LocationInfoTransport3Title, detail.LocationInfoTransport3Message},
		{detail.LocationInfoTransport4Title, detail.LocationInfoTransport4Message},
		{detail.LocationInfoTransport5Title, detail.LocationInfoTransport5Message},
	} {
		line := joinNonEmpty(": ", e.title, e.message)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func stringOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func joinNonEmpty(sep string, parts ...*string) string {
	var kept []string
	for _, part := range parts {
		if part != nil && *part != "" {
			kept = append(kept, *part)
		}
	}
	return strings.Join(kept, sep)
}

func joinStrings(sep string, parts ...string) string {
	var kept []string
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

func appendLine(lines []string, line string) []string {
	if line == "" {
		return lines
	}
	return append(lines, line)
}
