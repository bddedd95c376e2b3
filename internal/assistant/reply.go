package assistant

import (
	"regexp"
	"strings"
)

// ActionType names an action the assistant proposes.
type ActionType string

// Action types understood by the parsers.
const (
	ActionSearchGigs         ActionType = "SEARCH_GIGS"
	ActionPostGig            ActionType = "POST_GIG"
	ActionUpdateProfile      ActionType = "UPDATE_PROFILE"
	ActionApplyGig           ActionType = "APPLY_GIG"
	ActionRegisterFreelancer ActionType = "REGISTER_FREELANCER"
)

// webActions is the order in which web markers are looked for. A reply
// mentioning several markers yields the first one in this list.
var webActions = []ActionType{
	ActionSearchGigs,
	ActionPostGig,
	ActionUpdateProfile,
	ActionApplyGig,
	ActionRegisterFreelancer,
}

// Action is a structured suggestion extracted from a completion.
type Action struct {
	Type ActionType        `json:"type"`
	Data map[string]string `json:"data"`
}

// Reply is a completion split into display text and an optional action.
type Reply struct {
	Text   string
	Action *Action
}

// ParseWebReply looks for a "[TYPE]" marker followed by "Key: value" lines.
// The text is returned unchanged; the web client shows it as written and
// asks the user to confirm the action.
func ParseWebReply(text string) Reply {
	for _, t := range webActions {
		marker := "[" + string(t) + "]"
		start := strings.Index(text, marker)
		if start < 0 {
			continue
		}
		return Reply{
			Text:   text,
			Action: &Action{Type: t, Data: parseKeyValueLines(text[start+len(marker):])},
		}
	}
	return Reply{Text: text}
}

// parseKeyValueLines reads "Key Name: value" lines up to the next "[".
func parseKeyValueLines(body string) map[string]string {
	if end := strings.Index(body, "["); end >= 0 {
		body = body[:end]
	}
	data := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		data[key] = value
	}
	return data
}

// telegramMarker matches "[TYPE]" or "[TYPE key=value; key=value]" on one line.
var telegramMarker = regexp.MustCompile(
	`\[(SEARCH_GIGS|POST_GIG|UPDATE_PROFILE|APPLY_GIG|REGISTER_FREELANCER)(?:[ \t]+([^\]\n]*))?\]`,
)

// blankRuns collapses the gaps left behind by removed markers.
var blankRuns = regexp.MustCompile(`\n{3,}`)

// ParseTelegramReply extracts the first "[TYPE key=value; ...]" marker and
// strips every marker from the text.
func ParseTelegramReply(text string) Reply {
	var action *Action
	if m := telegramMarker.FindStringSubmatch(text); m != nil {
		action = &Action{Type: ActionType(m[1]), Data: parseAssignments(m[2])}
	}
	cleaned := telegramMarker.ReplaceAllString(text, "")
	cleaned = blankRuns.ReplaceAllString(cleaned, "\n\n")
	return Reply{Text: strings.TrimSpace(cleaned), Action: action}
}

// parseAssignments reads "key=value; key=value".
func parseAssignments(body string) map[string]string {
	data := map[string]string{}
	for _, pair := range strings.Split(body, ";") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "_")
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		data[key] = value
	}
	return data
}
