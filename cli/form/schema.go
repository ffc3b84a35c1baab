package form

import (
	"fmt"
	"strconv"

	"github.com/techcollege/portal/cli/api"
)

// Schema adapts one record type to the form: how to seed a draft, how to
// address a record, and how to apply a textual edit.
type Schema[R, D any] interface {
	Empty() D
	FromRecord(record R) D
	ID(record R) string
	Fields() []Field
	Set(draft *D, field, value string) error
	// Values renders the draft as the text SetField accepts.
	Values(draft D) map[string]string
}

// CooperationSchema edits international cooperation agreements.
type CooperationSchema struct{}

var _ Schema[api.Cooperation, api.CooperationDraft] = CooperationSchema{}

func (CooperationSchema) Empty() api.CooperationDraft {
	return api.CooperationDraft{Order: MinOrder}
}

func (CooperationSchema) FromRecord(c api.Cooperation) api.CooperationDraft {
	order := c.Order
	if order < MinOrder {
		order = MinOrder
	}
	return api.CooperationDraft{
		StateName: c.StateName,
		OrgName:   c.OrgName,
		DogReg:    c.DogReg,
		Order:     order,
		IsActive:  c.IsActive,
	}
}

func (CooperationSchema) ID(c api.Cooperation) string {
	return c.ID
}

func (CooperationSchema) Fields() []Field {
	return []Field{
		{Name: "stateName", Label: "Страна", Kind: KindText, Required: true},
		{Name: "orgName", Label: "Организация", Kind: KindText, Required: true},
		{Name: "dogReg", Label: "Договор", Kind: KindText, Required: true},
		{Name: "order", Label: "Порядок", Kind: KindOrder},
		{Name: "isActive", Label: "Активно", Kind: KindBool},
	}
}

func (CooperationSchema) Set(d *api.CooperationDraft, field, value string) error {
	switch field {
	case "stateName":
		d.StateName = value
	case "orgName":
		d.OrgName = value
	case "dogReg":
		d.DogReg = value
	case "order":
		n, err := parseOrder(field, value)
		if err != nil {
			return err
		}
		d.Order = n
	case "isActive":
		b, err := parseBool(field, value)
		if err != nil {
			return err
		}
		d.IsActive = b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

func (CooperationSchema) Values(d api.CooperationDraft) map[string]string {
	return map[string]string{
		"stateName": d.StateName,
		"orgName":   d.OrgName,
		"dogReg":    d.DogReg,
		"order":     strconv.Itoa(d.Order),
		"isActive":  strconv.FormatBool(d.IsActive),
	}
}

// AnnouncementSchema edits schedule announcements.
type AnnouncementSchema struct{}

var _ Schema[api.Announcement, api.AnnouncementDraft] = AnnouncementSchema{}

func (AnnouncementSchema) Empty() api.AnnouncementDraft {
	return api.AnnouncementDraft{}
}

func (AnnouncementSchema) FromRecord(a api.Announcement) api.AnnouncementDraft {
	return api.AnnouncementDraft{
		Title:   a.Title,
		Content: a.Content,
		Urgent:  a.Urgent,
		Date:    a.Date,
	}
}

func (AnnouncementSchema) ID(a api.Announcement) string {
	return a.ID
}

func (AnnouncementSchema) Fields() []Field {
	return []Field{
		{Name: "title", Label: "Заголовок", Kind: KindText, Required: true},
		{Name: "content", Label: "Текст", Kind: KindLongText, Required: true},
		{Name: "urgent", Label: "Срочное", Kind: KindBool},
		{Name: "date", Label: "Дата", Kind: KindText},
	}
}

func (AnnouncementSchema) Set(d *api.AnnouncementDraft, field, value string) error {
	switch field {
	case "title":
		d.Title = value
	case "content":
		d.Content = value
	case "urgent":
		b, err := parseBool(field, value)
		if err != nil {
			return err
		}
		d.Urgent = b
	case "date":
		d.Date = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

func (AnnouncementSchema) Values(d api.AnnouncementDraft) map[string]string {
	return map[string]string{
		"title":   d.Title,
		"content": d.Content,
		"urgent":  strconv.FormatBool(d.Urgent),
		"date":    d.Date,
	}
}
