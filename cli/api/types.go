package api

// Cooperation is one international cooperation agreement.
type Cooperation struct {
	ID        string `json:"id"`
	StateName string `json:"stateName"`
	OrgName   string `json:"orgName"`
	DogReg    string `json:"dogReg"`
	Order     int    `json:"order"`
	IsActive  bool   `json:"isActive"`
}

// CooperationDraft is the request body for creating or updating a Cooperation.
type CooperationDraft struct {
	StateName string `json:"stateName" validate:"notblank"`
	OrgName   string `json:"orgName"   validate:"notblank"`
	DogReg    string `json:"dogReg"    validate:"notblank"`
	Order     int    `json:"order"     validate:"min=1"`
	IsActive  bool   `json:"isActive"`
}

// Announcement is a public schedule announcement. Older records may lack an id.
type Announcement struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Urgent  bool   `json:"urgent"`
	Date    string `json:"date"`
}

// AnnouncementDraft is the request body for creating or updating an Announcement.
// The date is always sent: an empty date on create lets the server stamp the
// current day, and on update it clears the stored date.
type AnnouncementDraft struct {
	Title   string `json:"title"   validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
	Urgent  bool   `json:"urgent"`
	Date    string `json:"date"`
}

// Group is a study group with its weekly timetable.
type Group struct {
	Name      string        `json:"name"`
	Specialty string        `json:"specialty"`
	Schedule  []DaySchedule `json:"schedule"`
}

type DaySchedule struct {
	Day     string   `json:"day"`
	Lessons []Lesson `json:"lessons"`
}

type Lesson struct {
	Time    string `json:"time"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
	Room    string `json:"room"`
}

// LessonCount returns the number of lessons across the whole week.
func (g *Group) LessonCount() int {
	total := 0
	for i := range g.Schedule {
		total += len(g.Schedule[i].Lessons)
	}
	return total
}
