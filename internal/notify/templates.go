package notify

import (
	"bytes"
	"html/template"

	"github.com/givehope/donation-service/internal/core/domain"
)

const approvedTpl = `
<h2>Hi {{.DonorName}},</h2>
<p>Your donation request for <strong>{{.ItemName}}</strong> has been <b style="color:green;">approved</b> by the NGO.</p>
<p>We appreciate your generosity. The NGO team will contact you soon for pickup.</p>
<p>Thank you for supporting the cause &hearts;</p>
`

const rejectedTpl = `
<h2>Hi {{.DonorName}},</h2>
<p>We regret to inform you that your donation request for <strong>{{.ItemName}}</strong> has been <b style="color:red;">rejected</b> by the NGO.</p>
<p>You can check details in your dashboard and try again later.</p>
<p>Thank you for your willingness to help.</p>
`

var (
	approvedTemplate = template.Must(template.New("approved").Parse(approvedTpl))
	rejectedTemplate = template.Must(template.New("rejected").Parse(rejectedTpl))
)

// RenderStatusEmail builds the subject and HTML body for a status event.
// Statuses other than approved/rejected produce no email (ok=false).
func RenderStatusEmail(event domain.StatusEvent) (subject, body string, ok bool) {
	var tpl *template.Template
	switch event.Status {
	case domain.StatusApproved:
		subject = "Your Donation Has Been Approved!"
		tpl = approvedTemplate
	case domain.StatusRejected:
		subject = "Your Donation Request Was Rejected"
		tpl = rejectedTemplate
	default:
		return "", "", false
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, event); err != nil {
		return "", "", false
	}
	return subject, buf.String(), true
}
