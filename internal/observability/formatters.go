package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-tracker/internal/db"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// Printer renders command results for the operational CLI.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintUser outputs an identity summary, as shown after verify-user.
func (p *Printer) PrintUser(title string, u *db.User) {
	if u == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", u.ID))
	sb.WriteString(fmt.Sprintf("Name:     %s\n", u.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", u.Email))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", u.Role))
	verified := "no"
	if u.EmailVerified {
		verified = "yes"
	}
	sb.WriteString(fmt.Sprintf("Verified: %s", verified))

	p.printBox(strings.ToUpper(title), sb.String())
}

// PrintMigration outputs the schema version reached by a migrate command.
func (p *Printer) PrintMigration(action string, version int64) {
	p.printBox("SCHEMA MIGRATION", fmt.Sprintf("Action:   %s\nVersion:  %d", action, version))
}
