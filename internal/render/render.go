// Package render turns decoded token claims into the state of the profile
// view: an error banner, a profile card and a list of claim rows.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SebbieMzingKe/iam-profile/internal/token"
)

// Display strings.
const (
	MsgDecodeFailed  = "Could not extract data from token"
	MsgTokenExpired  = "Token has expired"
	MsgNotSpecified  = "Not specified"
	DefaultAvatarURL = "/img/person.png"
)

const (
	defaultDateLayout = "2006-01-02"
	defaultTimeLayout = "15:04:05"
)

// Profile is the content of the profile card.
type Profile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Row is one entry of the claim list. Detail carries the readable form of
// timestamp claims and is empty otherwise.
type Row struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// Text returns the full displayed text of the row value.
func (r Row) Text() string {
	return r.Value + r.Detail
}

// Result describes what the view should show. When Error is set, Profile is
// nil and Rows is empty.
type Result struct {
	Error   string   `json:"error,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
	Rows    []Row    `json:"rows"`
}

// Failed reports whether the result is an error state.
func (r Result) Failed() bool {
	return r.Error != ""
}

// ErrorResult builds the error state for message.
func ErrorResult(message string) Result {
	return Result{Error: message, Rows: []Row{}}
}

// Renderer converts claims into a Result.
type Renderer struct {
	Location   *time.Location
	DateLayout string
	TimeLayout string
	Now        func() time.Time
}

// NewRenderer returns a renderer that formats timestamps in the local zone.
func NewRenderer() *Renderer {
	return &Renderer{
		Location:   time.Local,
		DateLayout: defaultDateLayout,
		TimeLayout: defaultTimeLayout,
		Now:        time.Now,
	}
}

// Render decides the view state for claims. A nil claims value means the
// token could not be decoded.
func (r *Renderer) Render(claims *token.Claims) Result {
	if claims == nil {
		return ErrorResult(MsgDecodeFailed)
	}
	if !token.IsValidAt(claims, r.now()) {
		return ErrorResult(MsgTokenExpired)
	}

	result := Result{Rows: make([]Row, 0, claims.Len())}
	if claims.Truthy(token.ClaimName) {
		result.Profile = profileFrom(claims)
	}
	for _, key := range claims.Keys() {
		result.Rows = append(result.Rows, r.row(claims, key))
	}
	return result
}

func profileFrom(claims *token.Claims) *Profile {
	p := &Profile{
		Name:      claims.Text(token.ClaimName),
		Email:     MsgNotSpecified,
		AvatarURL: DefaultAvatarURL,
	}
	if claims.Truthy(token.ClaimEmail) {
		p.Email = claims.Text(token.ClaimEmail)
	}
	if claims.Truthy(token.ClaimPicture) {
		p.AvatarURL = claims.Text(token.ClaimPicture)
	}
	return p
}

func (r *Renderer) row(claims *token.Claims, key string) Row {
	row := Row{Label: key}
	kind, _ := claims.Kind(key)

	switch {
	case (key == token.ClaimIssuedAt || key == token.ClaimExpiry) && kind == token.KindNumber:
		n, _ := claims.Number(key)
		row.Value = token.NumberText(n)
		if seconds, err := n.Float64(); err == nil {
			row.Detail = fmt.Sprintf(" (%s)", r.FormatEpoch(seconds))
		}
	case kind == token.KindObject || kind == token.KindArray || kind == token.KindNull:
		raw, _ := claims.Raw(key)
		row.Value = indent(raw)
	default:
		row.Value = claims.Text(key)
	}
	return row
}

// FormatEpoch formats epoch seconds as "<date> <time>" in the renderer's zone.
func (r *Renderer) FormatEpoch(seconds float64) string {
	t := token.EpochTime(seconds)
	if r.Location != nil {
		t = t.In(r.Location)
	}
	return t.Format(r.dateLayout()) + " " + t.Format(r.timeLayout())
}

func (r *Renderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Renderer) dateLayout() string {
	if r.DateLayout == "" {
		return defaultDateLayout
	}
	return r.DateLayout
}

func (r *Renderer) timeLayout() string {
	if r.TimeLayout == "" {
		return defaultTimeLayout
	}
	return r.TimeLayout
}

// indent pretty-prints JSON keeping the received key order.
func indent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
