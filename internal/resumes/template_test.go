package resumes

import "testing"

func TestDefaultTemplatePlaceholders(t *testing.T) {
	tpl := DefaultTemplate()

	if tpl.Template.Theme != "modern" {
		t.Fatalf("expected modern theme, got %q", tpl.Template.Theme)
	}
	if len(tpl.Template.ColorPalette) != 3 || tpl.Template.ColorPalette[0] != "#2563eb" {
		t.Fatalf("unexpected palette %v", tpl.Template.ColorPalette)
	}
	if len(tpl.Skills) != 3 || tpl.Skills[0].Name != "JavaScript" || tpl.Skills[0].Progress != 85 {
		t.Fatalf("unexpected skills %v", tpl.Skills)
	}
	if len(tpl.Languages) != 2 || tpl.Languages[1].Name != "Spanish" {
		t.Fatalf("unexpected languages %v", tpl.Languages)
	}
	if len(tpl.Interests) != 4 {
		t.Fatalf("unexpected interests %v", tpl.Interests)
	}
	if tpl.ThumbnailLink != "" || tpl.ProfileInfo.ProfilePreviewURL != "" {
		t.Fatalf("template must not reference files")
	}
	if tpl.ID != "" || tpl.UserID != "" || tpl.Title != "" {
		t.Fatalf("template must not carry identity: %+v", tpl)
	}
	if err := validate(Resume{Title: "x", Skills: tpl.Skills, Languages: tpl.Languages}); err != nil {
		t.Fatalf("template progress values must validate: %v", err)
	}
}

func TestDefaultTemplateReturnsFreshSlices(t *testing.T) {
	a := DefaultTemplate()
	a.Skills[0].Name = "Go"
	a.Interests[0] = "Chess"
	a.Template.ColorPalette[0] = "#000000"

	b := DefaultTemplate()
	if b.Skills[0].Name != "JavaScript" || b.Interests[0] != "Technology" || b.Template.ColorPalette[0] != "#2563eb" {
		t.Fatalf("template shares state between calls: %+v", b)
	}
}
