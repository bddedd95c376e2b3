package assistant

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/careerplus/careerplus-api/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrInvalidCatalog is returned when catalog content is incomplete.
var ErrInvalidCatalog = errors.New("invalid assistant catalog")

// wizardFields lists the answers each wizard must collect, in order.
var wizardFields = map[Mode][]string{
	ModePostGig:            {"title", "description", "category", "location", "budget", "duration"},
	ModeRegisterFreelancer: {"categories", "availability", "location", "bio"},
}

// Messages holds the fixed replies of the assistant.
type Messages struct {
	Welcome       string `yaml:"welcome"`
	Apology       string `yaml:"apology"`
	CommitFailure string `yaml:"commit_failure"`
	Cancelled     string `yaml:"cancelled"`
	EmptyAnswer   string `yaml:"empty_answer"`
	NoResults     string `yaml:"no_results"`
	ResultsHeader string `yaml:"results_header"`
}

// Step is one wizard question and the answer key it fills.
type Step struct {
	Field    string `yaml:"field"`
	Question string `yaml:"question"`
}

// Wizard is a fixed sequence of questions ending in a single commit.
type Wizard struct {
	Triggers []string `yaml:"triggers"`
	Intro    string   `yaml:"intro"`
	Done     string   `yaml:"done"`
	Steps    []Step   `yaml:"steps"`

	done *template.Template
}

// Catalog is the conversational content of both assistant channels.
type Catalog struct {
	WebPrompt      string             `yaml:"web_prompt"`
	TelegramPrompt string             `yaml:"telegram_prompt"`
	Messages       Messages           `yaml:"messages"`
	CancelKeywords []string           `yaml:"cancel_keywords"`
	Wizards        map[string]*Wizard `yaml:"wizards"`
}

type promptData struct {
	Categories []string
}

var templateFuncs = template.FuncMap{"join": strings.Join}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes YAML catalog content, renders the prompts and
// questions against the category taxonomy, and checks that every wizard
// asks for the fields its commit needs.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	if strings.TrimSpace(c.WebPrompt) == "" || strings.TrimSpace(c.TelegramPrompt) == "" {
		return nil, fmt.Errorf("%w: both prompts are required", ErrInvalidCatalog)
	}
	if c.Messages.Apology == "" || c.Messages.CommitFailure == "" || c.Messages.Cancelled == "" {
		return nil, fmt.Errorf("%w: apology, commit_failure and cancelled messages are required", ErrInvalidCatalog)
	}

	pd := promptData{Categories: domain.Categories}
	var err error
	if c.WebPrompt, err = render("web_prompt", c.WebPrompt, pd); err != nil {
		return nil, err
	}
	if c.TelegramPrompt, err = render("telegram_prompt", c.TelegramPrompt, pd); err != nil {
		return nil, err
	}

	for i, kw := range c.CancelKeywords {
		c.CancelKeywords[i] = normalize(kw)
	}

	for mode, fields := range wizardFields {
		w, ok := c.Wizards[string(mode)]
		if !ok || w == nil {
			return nil, fmt.Errorf("%w: wizard %q is missing", ErrInvalidCatalog, mode)
		}
		if len(w.Steps) != len(fields) {
			return nil, fmt.Errorf("%w: wizard %q needs %d steps, has %d",
				ErrInvalidCatalog, mode, len(fields), len(w.Steps))
		}
		for i, field := range fields {
			if w.Steps[i].Field != field {
				return nil, fmt.Errorf("%w: wizard %q step %d must collect %q, not %q",
					ErrInvalidCatalog, mode, i, field, w.Steps[i].Field)
			}
			q, err := render(string(mode)+"."+field, w.Steps[i].Question, pd)
			if err != nil {
				return nil, err
			}
			w.Steps[i].Question = q
		}
		if len(w.Triggers) == 0 {
			return nil, fmt.Errorf("%w: wizard %q has no triggers", ErrInvalidCatalog, mode)
		}
		for i, t := range w.Triggers {
			w.Triggers[i] = strings.ToLower(strings.TrimSpace(t))
		}
		w.done, err = template.New(string(mode) + ".done").Funcs(templateFuncs).Parse(w.Done)
		if err != nil {
			return nil, fmt.Errorf("%w: %s done text: %v", ErrInvalidCatalog, mode, err)
		}
	}

	return &c, nil
}

func render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}
	return sb.String(), nil
}

// Wizard returns the wizard for mode, or nil.
func (c *Catalog) Wizard(mode Mode) *Wizard {
	return c.Wizards[string(mode)]
}

// MatchTrigger returns the wizard whose trigger phrase occurs in text,
// ignoring case, or ModeNone.
func (c *Catalog) MatchTrigger(text string) Mode {
	lower := strings.ToLower(text)
	// Fixed order so overlapping phrases resolve the same way every time.
	for _, mode := range []Mode{ModePostGig, ModeRegisterFreelancer} {
		w := c.Wizard(mode)
		if w == nil {
			continue
		}
		for _, t := range w.Triggers {
			if t != "" && strings.Contains(lower, t) {
				return mode
			}
		}
	}
	return ModeNone
}

// IsCancel reports whether text is exactly one of the cancel keywords.
func (c *Catalog) IsCancel(text string) bool {
	n := normalize(text)
	for _, kw := range c.CancelKeywords {
		if n == kw {
			return true
		}
	}
	return false
}

// DoneText renders the wizard's confirmation with the committed answers.
func (w *Wizard) DoneText(answers map[string]string) string {
	var sb strings.Builder
	if err := w.done.Execute(&sb, answers); err != nil {
		return w.Done
	}
	return sb.String()
}

// normalize lowercases s, trims surrounding punctuation and collapses inner
// whitespace.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, ".!? ")
	return strings.Join(strings.Fields(s), " ")
}
