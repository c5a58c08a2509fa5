package resumes

import "time"

type Template struct {
	Theme        string   `json:"theme"`
	ColorPalette []string `json:"colorPalate"`
}

type ProfileInfo struct {
	ProfilePreviewURL string `json:"profilePreviewUrl"`
	FullName          string `json:"fullName"`
	Designation       string `json:"designation"`
	Summary           string `json:"summary"`
}

type ContactInfo struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
}

type WorkExperience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// Skill and Language progress is a percentage in [0, 100].
type Skill struct {
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GitHub      string `json:"github"`
	LiveDemo    string `json:"liveDemo"`
}

type Certification struct {
	Title  string `json:"title"`
	Issuer string `json:"issue"`
	Year   string `json:"year"`
}

type Language struct {
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}

// Resume is a user's resume document. ThumbnailLink and
// ProfileInfo.ProfilePreviewURL reference files in the file store.
type Resume struct {
	ID             string           `json:"_id"`
	UserID         string           `json:"userID"`
	Title          string           `json:"title"`
	ThumbnailLink  string           `json:"thumbnailLink"`
	Template       Template         `json:"template"`
	ProfileInfo    ProfileInfo      `json:"profileInfo"`
	ContactInfo    ContactInfo      `json:"contactInfo"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Education      []Education      `json:"education"`
	Skills         []Skill          `json:"skills"`
	Projects       []Project        `json:"projects"`
	Certifications []Certification  `json:"certifications"`
	Languages      []Language       `json:"languages"`
	Interests      []string         `json:"interests"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Summary is the list projection of a Resume.
type Summary struct {
	ID            string    `json:"_id"`
	Title         string    `json:"title"`
	ThumbnailLink string    `json:"thumbnailLink"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (r Resume) Summary() Summary {
	return Summary{
		ID:            r.ID,
		Title:         r.Title,
		ThumbnailLink: r.ThumbnailLink,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FileLinks returns the file references held by the resume, empty ones included.
func (r Resume) FileLinks() []string {
	return []string{r.ThumbnailLink, r.ProfileInfo.ProfilePreviewURL}
}

// Clone returns a deep copy that shares no slices with r.
func (r Resume) Clone() Resume {
	out := r
	out.Template.ColorPalette = cloneSlice(r.Template.ColorPalette)
	out.WorkExperience = cloneSlice(r.WorkExperience)
	out.Education = cloneSlice(r.Education)
	out.Skills = cloneSlice(r.Skills)
	out.Projects = cloneSlice(r.Projects)
	out.Certifications = cloneSlice(r.Certifications)
	out.Languages = cloneSlice(r.Languages)
	out.Interests = cloneSlice(r.Interests)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
