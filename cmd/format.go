package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/rubiojr/qboard/pkg/core"
)

// formatNumber formats a number with K/M suffixes for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// formatTime formats a time relative to now or as an absolute date
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < 24*time.Hour {
		if diff < time.Hour {
			minutes := int(diff.Minutes())
			if minutes < 1 {
				return "just now"
			}
			return fmt.Sprintf("%d minutes ago", minutes)
		}
		hours := int(diff.Hours())
		return fmt.Sprintf("%d hours ago", hours)
	}

	if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%d days ago", days)
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 2, 15:04")
	}
	return t.Format("Jan 2, 2006")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// questionMeta is the one line summary shown under a question subject.
func questionMeta(q core.Question) string {
	parts := []string{
		"by " + q.Author.Username,
		formatTime(q.CreateDate),
		plural(q.AnswerCount, "answer"),
		plural(q.VoterCount, "vote"),
	}
	if q.ModifyDate != nil {
		parts = append(parts, "edited "+formatTime(*q.ModifyDate))
	}
	return strings.Join(parts, " · ")
}

// renderQuestionSummary renders a question as it appears in result lists.
func renderQuestionSummary(q core.Question) string {
	subject := subjectStyle.Render(fmt.Sprintf("#%d %s", q.ID, q.Subject))
	return blockStyle.Render(subject + "\n" + metaStyle.Render(questionMeta(q)))
}

// renderPage renders a result page with its navigation footer.
func renderPage(title string, page core.Page[core.Question]) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if len(page.Items) == 0 {
		b.WriteString(noDataStyle.Render("No questions found"))
		b.WriteString("\n")
	}
	for _, q := range page.Items {
		b.WriteString(renderQuestionSummary(q))
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("Page %d of %d · %s", page.Number+1, max(page.TotalPages, 1), plural(page.TotalElements, "question"))
	if page.HasNext() {
		footer += fmt.Sprintf(" · next: --page %d", page.Number+1)
	}
	b.WriteString(metaStyle.Render(footer))
	b.WriteString("\n")
	return b.String()
}
