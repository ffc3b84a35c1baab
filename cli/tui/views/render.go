// Package views holds the interactive screens: public lists, the group
// schedule and the admin tables.
package views

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/techcollege/portal/cli/api"
	"github.com/techcollege/portal/cli/form"
	"github.com/techcollege/portal/cli/helpers"
	"github.com/techcollege/portal/cli/tui/styles"
)

const (
	EmptyAnnouncements = "Объявлений пока нет"
	EmptyCooperations  = "Соглашений пока нет"
	GroupNotFound      = "Группа не найдена"
)

// RenderAnnouncement renders one announcement card.
func RenderAnnouncement(a api.Announcement) string {
	title := styles.TitleStyle.Render(a.Title)
	if a.Urgent {
		title = styles.UrgentStyle.Render("● Срочно") + " " + title
	}
	lines := []string{title}
	if a.Date != "" {
		lines = append(lines, styles.HelpStyle.Render(a.Date))
	}
	lines = append(lines, a.Content)
	return styles.CardStyle.Render(strings.Join(lines, "\n"))
}

// RenderCooperation renders one agreement card for the public list.
func RenderCooperation(c api.Cooperation) string {
	status := styles.HelpStyle.Render("завершено")
	if c.IsActive {
		status = styles.SuccessStyle.Render("действует")
	}
	head := fmt.Sprintf("%d. %s", c.Order, styles.TitleStyle.Render(c.StateName))
	body := fmt.Sprintf("%s\nДоговор: %s · %s", c.OrgName, c.DogReg, status)
	return styles.CardStyle.Render(head + "\n" + body)
}

// RenderGroup renders a weekly timetable. Days and lessons keep server order.
func RenderGroup(g *api.Group, width int) string {
	var b strings.Builder
	b.WriteString(styles.RenderTitle(g.Name))
	if g.Specialty != "" {
		b.WriteString("  ")
		b.WriteString(styles.HelpStyle.Render(g.Specialty))
	}
	b.WriteString("\n\n")
	if g.LessonCount() == 0 {
		b.WriteString(styles.HelpStyle.Render("Занятий нет"))
		return b.String()
	}
	subjectWidth := max(12, width-40)
	for _, day := range g.Schedule {
		if len(day.Lessons) == 0 {
			continue
		}
		b.WriteString(styles.InfoStyle.Bold(true).Render(day.Day))
		b.WriteString("\n")
		for _, lesson := range day.Lessons {
			fmt.Fprintf(&b, "  %-11s %s", lesson.Time, helpers.Truncate(lesson.Subject, subjectWidth))
			var extra []string
			if lesson.Teacher != "" {
				extra = append(extra, lesson.Teacher)
			}
			if lesson.Room != "" {
				extra = append(extra, "ауд. "+lesson.Room)
			}
			if len(extra) > 0 {
				b.WriteString("  ")
				b.WriteString(styles.HelpStyle.Render(strings.Join(extra, ", ")))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// CooperationColumns are the admin table columns for agreements.
func CooperationColumns() []table.Column {
	return []table.Column{
		{Title: "№", Width: 4},
		{Title: "Страна", Width: 16},
		{Title: "Организация", Width: 30},
		{Title: "Договор", Width: 20},
		{Title: "Активно", Width: 8},
	}
}

func CooperationRow(c api.Cooperation) table.Row {
	return table.Row{strconv.Itoa(c.Order), c.StateName, c.OrgName, c.DogReg, yesNo(c.IsActive)}
}

func DescribeCooperation(c api.Cooperation) string {
	return fmt.Sprintf("%s, %s (%s)", c.StateName, c.OrgName, c.DogReg)
}

// AnnouncementColumns are the admin table columns for announcements.
func AnnouncementColumns() []table.Column {
	return []table.Column{
		{Title: "Дата", Width: 10},
		{Title: "Заголовок", Width: 30},
		{Title: "Срочное", Width: 8},
		{Title: "Текст", Width: 40},
	}
}

func AnnouncementRow(a api.Announcement) table.Row {
	content := strings.Join(strings.Fields(a.Content), " ")
	return table.Row{a.Date, a.Title, yesNo(a.Urgent), helpers.Truncate(content, 40)}
}

func DescribeAnnouncement(a api.Announcement) string {
	if a.Date == "" {
		return a.Title
	}
	return fmt.Sprintf("%s (%s)", a.Title, a.Date)
}

func yesNo(v bool) string {
	if v {
		return "да"
	}
	return "нет"
}

// ErrorText words err for the status line.
func ErrorText(err error, fields []form.Field) string {
	var validation *form.ValidationError
	var httpErr *api.HTTPError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validation):
		return "Заполните поля: " + strings.Join(labels(validation.Fields, fields), ", ")
	case errors.Is(err, api.ErrGroupNotFound):
		return GroupNotFound
	case errors.Is(err, api.ErrNetwork):
		return "Сервер недоступен, нажмите r чтобы повторить"
	case errors.As(err, &httpErr):
		if httpErr.Message != "" {
			return fmt.Sprintf("Ошибка сервера (%d): %s", httpErr.Status, httpErr.Message)
		}
		return fmt.Sprintf("Ошибка сервера (%d)", httpErr.Status)
	case errors.Is(err, api.ErrParse):
		return "Сервер вернул некорректные данные"
	default:
		return err.Error()
	}
}

func labels(names []string, fields []form.Field) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		label := name
		for _, f := range fields {
			if f.Name == name {
				label = f.Label
				break
			}
		}
		out = append(out, label)
	}
	return out
}

// centered places s in the middle of a width by height box.
func centered(width, height int, s string) string {
	if width <= 0 || height <= 0 {
		return s
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}
