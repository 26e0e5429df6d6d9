package domain

// Booking source labels recorded in the sheet.
const (
	SourceTelegram  = "Telegram"
	SourceWeb       = "Сайт"
	SourceAssistant = "OpenAI Assistant"
)

// DateTimeLayout is the canonical booking date/time format (ДД.ММ.ГГГГ ЧЧ:ММ).
const DateTimeLayout = "02.01.2006 15:04"

// BookingDraft is the canonical in-progress booking record. DateTime is kept
// normalized in DateTimeLayout once Validate has run; Master and Comment may
// stay empty.
type BookingDraft struct {
	Name     string
	Phone    string
	Service  string
	DateTime string
	Master   string
	Comment  string
	Source   string
}

// BookingPayload is the wire shape shared by the web API and assistant tool
// arguments. Historical clients name the same value date or datetime, and the
// master either master or master_category, so both alias pairs are carried and
// kept in sync. The assistant tool schema additionally uses comments.
type BookingPayload struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Service        string `json:"service"`
	Date           string `json:"date,omitempty"`
	DateTime       string `json:"datetime,omitempty"`
	Master         string `json:"master,omitempty"`
	MasterCategory string `json:"master_category,omitempty"`
	Comment        string `json:"comment,omitempty"`
	Comments       string `json:"comments,omitempty"`
	Source         string `json:"source,omitempty"`
}

// ToDraft reconciles the alias fields into the canonical record.
func (p BookingPayload) ToDraft() BookingDraft {
	dt := p.Date
	if dt == "" {
		dt = p.DateTime
	}
	master := p.Master
	if master == "" {
		master = p.MasterCategory
	}
	comment := p.Comment
	if comment == "" {
		comment = p.Comments
	}
	return BookingDraft{
		Name:     p.Name,
		Phone:    p.Phone,
		Service:  p.Service,
		DateTime: dt,
		Master:   master,
		Comment:  comment,
		Source:   p.Source,
	}
}

// Payload mirrors the draft back into the wire shape with both members of
// every alias pair filled, so downstream consumers expecting either name work.
func (d BookingDraft) Payload() BookingPayload {
	return BookingPayload{
		Name:           d.Name,
		Phone:          d.Phone,
		Service:        d.Service,
		Date:           d.DateTime,
		DateTime:       d.DateTime,
		Master:         d.Master,
		MasterCategory: d.Master,
		Comment:        d.Comment,
		Comments:       d.Comment,
		Source:         d.Source,
	}
}
