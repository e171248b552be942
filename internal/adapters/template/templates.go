package template

// builtinTemplates holds the markdown sources for the standard
// notification emails. Names match the routes in the event package.
// Variables: candidate_name, job_title, application_id, company_name,
// interviewer_name, scheduled_at, location.
var builtinTemplates = map[string]string{
	"application-received": `# Thank you for applying

Hi {{candidate_name}},

We received your application for **{{job_title}}** at {{company_name}}.
Your application reference is {{application_id}}. Our team will review it
and get back to you shortly.

Best regards,
The {{company_name}} Team`,

	"application-reviewed": `# Application update

Hi {{candidate_name}},

Your application for **{{job_title}}** has been reviewed.
We will be in touch about the next steps soon.

Best regards,
The {{company_name}} Team`,

	"application-shortlisted": `# You have been shortlisted

Hi {{candidate_name}},

Good news! You have been shortlisted for **{{job_title}}**.
We will reach out shortly to schedule an interview.

Best regards,
The {{company_name}} Team`,

	"interview-assigned-interviewer": `# New interview assignment

Hi {{interviewer_name}},

You have been assigned to interview **{{candidate_name}}** for the
**{{job_title}}** position.

- When: {{scheduled_at}}
- Where: {{location}}

A calendar invite is attached.`,

	"interview-assigned-candidate": `# Your interview is scheduled

Hi {{candidate_name}},

Your interview for **{{job_title}}** has been scheduled.

- When: {{scheduled_at}}
- Where: {{location}}

A calendar invite is attached. Good luck!

Best regards,
The {{company_name}} Team`,

	"interview-cancelled-candidate": `# Interview cancelled

Hi {{candidate_name}},

Your interview for **{{job_title}}** scheduled on {{scheduled_at}} has
been cancelled. We apologise for the inconvenience and will contact you
about rescheduling.

Best regards,
The {{company_name}} Team`,

	"interview-cancelled-interviewer": `# Interview cancelled

Hi {{interviewer_name}},

The interview with **{{candidate_name}}** for **{{job_title}}**
scheduled on {{scheduled_at}} has been cancelled.`,

	"job-offer": `# Job offer

Hi {{candidate_name}},

Congratulations! We are delighted to offer you the **{{job_title}}**
position at {{company_name}}. Details will follow in a separate message.

Best regards,
The {{company_name}} Team`,
}
