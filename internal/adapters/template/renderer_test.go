package template

import (
	"errors"
	"strings"
	"testing"
)

func TestRender_SubstitutesVariables(t *testing.T) {
	r := NewMarkdownRenderer()

	body, isHTML, err := r.Render("application-received", map[string]string{
		"candidate_name": "Jane Doe",
		"job_title":      "Platform Engineer",
		"company_name":   "TalentDesk",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !isHTML {
		t.Error("Render() isHTML = false, want true")
	}
	if !strings.Contains(body, "Jane Doe") {
		t.Errorf("body missing candidate name: %q", body)
	}
	if !strings.Contains(body, "Platform Engineer") {
		t.Errorf("body missing job title: %q", body)
	}
	if strings.Contains(body, "{{") {
		t.Errorf("body contains unsubstituted placeholder: %q", body)
	}
}

func TestRender_ProducesHTML(t *testing.T) {
	r := NewMarkdownRenderer()

	body, _, err := r.Render("job-offer", map[string]string{
		"candidate_name": "Jane",
		"job_title":      "Engineer",
		"company_name":   "TalentDesk",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(body, "<h1") {
		t.Errorf("markdown heading not converted: %q", body)
	}
	if !strings.Contains(body, "<strong>Engineer</strong>") {
		t.Errorf("bold job title not converted: %q", body)
	}
}

func TestRender_EscapesRawHTML(t *testing.T) {
	r := NewMarkdownRenderer()
	r.Register("custom-test", "Hello {{name}}")

	body, _, err := r.Render("custom-test", map[string]string{
		"name": "<script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Errorf("raw HTML not escaped: %q", body)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := NewMarkdownRenderer()

	_, _, err := r.Render("no-such-template", nil)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Render() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestBuiltinTemplates_AllRender(t *testing.T) {
	r := NewMarkdownRenderer()
	vars := map[string]string{
		"candidate_name":   "Jane",
		"job_title":        "Engineer",
		"company_name":     "TalentDesk",
		"interviewer_name": "Sam",
		"scheduled_at":     "2024-06-10 14:00",
		"location":         "Online Meeting",
	}
	for name := range builtinTemplates {
		body, _, err := r.Render(name, vars)
		if err != nil {
			t.Errorf("Render(%q) error = %v", name, err)
			continue
		}
		if strings.Contains(body, "{{") {
			t.Errorf("Render(%q) left placeholder: %q", name, body)
		}
	}
}
