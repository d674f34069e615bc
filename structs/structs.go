package structs

import (
	"bytes"
	"strings"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Submission is the canonical record of an accepted lead. It is written
// as one line to the daily lead log and, when an archive database is
// configured, inserted there as well. Fields are stored sanitized.
type Submission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	PlanID    string    `json:"plan_id"`
	PlanName  string    `json:"plan"`
	Amount    int       `json:"amount"`
	Currency  string    `json:"currency"`
	Focus     string    `json:"focus,omitempty"`
	Referrer  string    `json:"ref,omitempty"`
	ClientIP  string    `json:"ip"`
	Timestamp time.Time `json:"timestamp"`
}

// Plan is a service tier a submitter can select. The plan table is
// static configuration and never mutated at runtime.
type Plan struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Price       int    `json:"price"`
	Currency    string `json:"currency"`
}

func (p Plan) Paid() bool {
	return p.Price > 0
}

// LegacyPlanRule classifies an old free-text plan label. Rules are
// evaluated in order and the first match wins.
type LegacyPlanRule struct {
	Contains string `json:"contains"`
	PlanID   string `json:"planId"`
}

// BotSighting is logged (bot category only) when a honeypot field
// comes back populated. No Submission is recorded for these.
type BotSighting struct {
	Field     string    `json:"field"`
	Value     string    `json:"value"`
	ClientIP  string    `json:"ip"`
	UserAgent string    `json:"user_agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HTMLToText extracts the visible text of an HTML document, used to
// build the plain-text alternative of notification emails.
func HTMLToText(input string) string {
	htmlInput, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return ""
	}

	body := cascadia.MustCompile("body").MatchFirst(htmlInput)
	if body == nil {
		return ""
	}

	var buf bytes.Buffer
	collectText(body, &buf)

	// collapse the blank lines left behind by block elements
	lines := strings.Split(buf.String(), "\n")
	var out []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func collectText(n *html.Node, buf *bytes.Buffer) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style":
			return
		case "br", "p", "div", "tr", "li", "hr":
			buf.WriteString("\n")
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, buf)
	}
}
