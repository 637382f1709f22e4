package orchestrators

import (
	"context"
	"fmt"
	"strings"

	emailAdapter "clubhouse/internal/adapters/email"
	"clubhouse/internal/domain/trainingsession"
)

// CancellationNotice renders the subject and Markdown body sent to members.
func CancellationNotice(s trainingsession.TrainingSession) (subject, body string) {
	when := s.SessionDate
	if s.SessionTime != "" {
		when += " at " + s.SessionTime
	}
	subject = fmt.Sprintf("Cancelled: %s (%s)", s.Title, s.SessionDate)

	var b strings.Builder
	fmt.Fprintf(&b, "**%s** on %s has been cancelled.\n\n", s.Title, when)
	if s.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n\n", s.Location)
	}
	if s.StatusReason != "" {
		fmt.Fprintf(&b, "Reason: %s\n\n", s.StatusReason)
	}
	b.WriteString("You do not need to excuse yourself; attendance has been updated.\n")
	return subject, b.String()
}

// sendCancellationNotices emails every recipient that has a contact address.
// POST: Returns the number of messages accepted by the sender
func sendCancellationNotices(ctx context.Context, s trainingsession.TrainingSession, memberIDs []string, deps UpdateSessionStatusDeps) (int, error) {
	if len(memberIDs) == 0 {
		return 0, nil
	}
	members, err := deps.Members.ListByIDs(ctx, memberIDs)
	if err != nil {
		return 0, fmt.Errorf("load recipients: %w", err)
	}

	subject, body := CancellationNotice(s)
	html, err := emailAdapter.RenderMarkdown(body)
	if err != nil {
		return 0, err
	}

	var reqs []emailAdapter.SendRequest
	for _, m := range members {
		if m.Email == "" {
			continue
		}
		reqs = append(reqs, emailAdapter.SendRequest{
			To:      []string{m.Email},
			From:    deps.FromAddress,
			Subject: subject,
			HTML:    html,
			Text:    body,
			Tags:    map[string]string{"kind": "session_cancelled", "session": s.ID},
		})
	}
	if len(reqs) == 0 {
		return 0, nil
	}
	results, err := deps.EmailSender.SendBatch(ctx, reqs)
	return len(results), err
}
