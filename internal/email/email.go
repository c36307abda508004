// Package email renders one outreach draft per contact.
package email

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/artifact"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Placeholder text used when a contact field is missing.
const (
	FallbackName    = "there"
	FallbackCompany = "your organization"
)

// DefaultTemplate is the outreach email body.
const DefaultTemplate = `Subject: Extending {{.Company}}’s signage durability & reducing maintenance costs

Hi {{.Name}},

I came across {{.Company}}’s work in recent trade shows and associations and wanted to
connect, given your leadership in {{.Company}}.

Across the signage and graphics space, teams are turning to DuPont Tedlar films to cut down
on maintenance, avoid costly replacements, and ensure consistent brand presence despite
UV exposure and harsh weather conditions. These solutions are helping industry leaders in
maximizing ROI while protecting visual assets long-term.

Would you be open to a short call to explore how this could benefit your upcoming projects?

Best,
{{.SenderName}}
{{.SenderTeam}}
`

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// Sender is the signature block.
type Sender struct {
	Name string
	Team string
}

// data is what templates see.
type data struct {
	Name       string
	Company    string
	Title      string
	SenderName string
	SenderTeam string
}

// Renderer fills the outreach template.
type Renderer struct {
	tmpl   *template.Template
	sender Sender
}

// NewRenderer parses text as the email template. An empty text selects
// DefaultTemplate.
func NewRenderer(text string, sender Sender) (*Renderer, error) {
	if text == "" {
		text = DefaultTemplate
	}
	tmpl, err := template.New("email").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, eris.Wrap(err, "email: parse template")
	}
	return &Renderer{tmpl: tmpl, sender: sender}, nil
}

// LoadRenderer builds a Renderer from the template file at path, or from
// DefaultTemplate when path is empty.
func LoadRenderer(fs afero.Fs, path string, sender Sender) (*Renderer, error) {
	if path == "" {
		return NewRenderer("", sender)
	}
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, eris.Wrapf(err, "email: read template %s", path)
	}
	return NewRenderer(string(raw), sender)
}

// Render produces the draft for c. Missing or blank name and company fall
// back to placeholder text.
func (r *Renderer) Render(c model.Contact) (model.EmailDraft, error) {
	name := field(c.Name, FallbackName)
	d := data{
		Name:       name,
		Company:    field(c.Company, FallbackCompany),
		Title:      field(c.Title, ""),
		SenderName: r.sender.Name,
		SenderTeam: r.sender.Team,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, d); err != nil {
		return model.EmailDraft{}, eris.Wrapf(err, "email: render %s", name)
	}
	return model.EmailDraft{
		Filename: Filename(name),
		Content:  buf.String(),
		Contact:  c,
	}, nil
}

// WriteAll renders a draft per contact into dir. Drafts whose filenames
// collide overwrite each other.
func (r *Renderer) WriteAll(fs afero.Fs, dir string, contacts []model.Contact) (int, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return 0, eris.Wrapf(err, "email: create dir %s", dir)
	}

	written := 0
	for _, c := range contacts {
		draft, err := r.Render(c)
		if err != nil {
			return written, err
		}
		if err := artifact.WriteFile(fs, filepath.Join(dir, draft.Filename), []byte(draft.Content)); err != nil {
			return written, eris.Wrap(err, "email: write draft")
		}
		written++
	}

	zap.L().Info("email: drafts written", zap.Int("count", written), zap.String("dir", dir))
	return written, nil
}

// Filename derives the draft file name from a contact name: characters other
// than letters, digits, underscore, whitespace and hyphen are dropped and
// spaces become underscores.
func Filename(name string) string {
	safe := unsafeChars.ReplaceAllString(name, "")
	safe = strings.ReplaceAll(safe, " ", "_")
	return "email_" + safe + ".txt"
}

func field(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	if v := strings.TrimSpace(*p); v != "" {
		return v
	}
	return fallback
}
