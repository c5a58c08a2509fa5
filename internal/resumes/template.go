package resumes

// DefaultTemplate returns the placeholder content every new resume starts from.
// Each call allocates fresh slices.
func DefaultTemplate() Resume {
	return Resume{
		Template: Template{
			Theme:        "modern",
			ColorPalette: []string{"#2563eb", "#1e40af", "#3b82f6"},
		},
		ProfileInfo: ProfileInfo{
			Summary: "Passionate professional with expertise in delivering high-quality solutions and driving innovation.",
		},
		WorkExperience: []WorkExperience{{
			Company:   "Company Name",
			Role:      "Job Title",
			StartDate: "MM/YYYY",
			EndDate:   "MM/YYYY",
			Description: "• Describe your key responsibilities and achievements\n" +
				"• Use bullet points to highlight your contributions\n" +
				"• Include quantifiable results when possible",
		}},
		Education: []Education{{
			Degree:      "Degree Name",
			Institution: "Institution Name",
			StartDate:   "MM/YYYY",
			EndDate:     "MM/YYYY",
		}},
		Skills: []Skill{
			{Name: "JavaScript", Progress: 85},
			{Name: "React", Progress: 80},
			{Name: "Node.js", Progress: 75},
		},
		Projects: []Project{{
			Title:       "Project Name",
			Description: "Brief description of the project, technologies used, and your role in its development.",
		}},
		Certifications: []Certification{{
			Title:  "Certification Name",
			Issuer: "Issuing Organization",
			Year:   "YYYY",
		}},
		Languages: []Language{
			{Name: "English", Progress: 100},
			{Name: "Spanish", Progress: 70},
		},
		Interests: []string{"Technology", "Reading", "Travel", "Photography"},
	}
}
