package mapper

import (
	"fmt"
	"strings"
	"time"

	coursesEntity "studyhub-api/modules/courses/entity"
	eventsEntity "studyhub-api/modules/events/entity"
	"studyhub-api/modules/sync/dto"
)

// Google Calendar colorId buckets, by kind and assessment sub-type.
const (
	colorExam         = "11" // tomato
	colorQuiz         = "6"  // tangerine
	colorAssignment   = "5"  // banana
	colorProject      = "3"  // grape
	colorStudySession = "7"  // peacock
	colorCustomEvent  = "8"  // graphite
)

const dateLayout = "2006-01-02"

// ToPayload converts a local event plus optional course context into the
// external event body. It is pure and deterministic: the same event and
// course always produce an identical payload, so repeated syncs of an
// unchanged event are idempotent updates.
func ToPayload(ev eventsEntity.Syncable, course *coursesEntity.Course, loc *time.Location) (*dto.EventPayload, error) {
	if loc == nil {
		loc = time.UTC
	}

	switch e := ev.(type) {
	case *eventsEntity.Assessment:
		return assessmentPayload(e, course, loc), nil
	case *eventsEntity.StudySession:
		return studySessionPayload(e, course, loc), nil
	case *eventsEntity.CustomEvent:
		return customEventPayload(e, course, loc), nil
	default:
		return nil, fmt.Errorf("mapper: unsupported event kind %q", ev.EventKind())
	}
}

func assessmentPayload(a *eventsEntity.Assessment, course *coursesEntity.Course, loc *time.Location) *dto.EventPayload {
	label, colorID := assessmentBucket(a.Type)

	var lines []string
	if course != nil {
		lines = append(lines, courseLine(course))
	}
	if a.Weight > 0 {
		lines = append(lines, fmt.Sprintf("Weight: %g%%", a.Weight))
	}
	if a.Description != "" {
		lines = append(lines, a.Description)
	}

	p := &dto.EventPayload{
		Summary:     label + ": " + a.Title,
		Description: strings.Join(lines, "\n"),
		ColorID:     colorID,
		Reminders:   assessmentReminders(a.Type),
	}
	p.Start, p.End = spanOf(a.StartAt, a.EndAt, a.AllDay, loc)
	return p
}

func studySessionPayload(s *eventsEntity.StudySession, course *coursesEntity.Course, loc *time.Location) *dto.EventPayload {
	var lines []string
	if course != nil {
		lines = append(lines, courseLine(course))
	}
	lines = append(lines, fmt.Sprintf("Week %d - %s", s.WeekNumber, activityLabel(s.ActivityType)))
	if s.Notes != "" {
		lines = append(lines, s.Notes)
	}

	p := &dto.EventPayload{
		Summary:     "Study: " + s.Title,
		Description: strings.Join(lines, "\n"),
		ColorID:     colorStudySession,
		Reminders: &dto.Reminders{
			Overrides: []dto.ReminderOverride{{Method: "popup", Minutes: 30}},
		},
	}
	p.Start, p.End = spanOf(s.StartAt, s.EndAt, false, loc)
	return p
}

func customEventPayload(e *eventsEntity.CustomEvent, course *coursesEntity.Course, loc *time.Location) *dto.EventPayload {
	var lines []string
	if course != nil {
		lines = append(lines, courseLine(course))
	}
	if e.Description != "" {
		lines = append(lines, e.Description)
	}

	p := &dto.EventPayload{
		Summary:     e.Title,
		Description: strings.Join(lines, "\n"),
		ColorID:     colorCustomEvent,
		Location:    e.Location,
		Reminders: &dto.Reminders{
			Overrides: []dto.ReminderOverride{{Method: "popup", Minutes: 30}},
		},
	}
	p.Start, p.End = spanOf(e.StartAt, e.EndAt, e.AllDay, loc)
	return p
}

func assessmentBucket(t eventsEntity.AssessmentType) (label, colorID string) {
	switch t {
	case eventsEntity.AssessmentExam:
		return "Exam", colorExam
	case eventsEntity.AssessmentQuiz:
		return "Quiz", colorQuiz
	case eventsEntity.AssessmentProject:
		return "Project", colorProject
	default:
		return "Assignment", colorAssignment
	}
}

func assessmentReminders(t eventsEntity.AssessmentType) *dto.Reminders {
	overrides := []dto.ReminderOverride{{Method: "popup", Minutes: 24 * 60}}
	if t == eventsEntity.AssessmentExam || t == eventsEntity.AssessmentQuiz {
		overrides = append(overrides, dto.ReminderOverride{Method: "popup", Minutes: 60})
	}
	return &dto.Reminders{Overrides: overrides}
}

func activityLabel(t eventsEntity.ActivityType) string {
	switch t {
	case eventsEntity.ActivityReading:
		return "Reading"
	case eventsEntity.ActivityPractice:
		return "Practice"
	case eventsEntity.ActivityRevision:
		return "Revision"
	case eventsEntity.ActivityLecture:
		return "Lecture review"
	default:
		return string(t)
	}
}

func courseLine(course *coursesEntity.Course) string {
	if course.Code != "" {
		return "Course: " + course.Code + " " + course.Name
	}
	return "Course: " + course.Name
}

// spanOf renders the time span as either a timed or an all-day pair. An end
// at or before the start is read as crossing midnight. All-day ends are
// exclusive per the provider's convention.
func spanOf(start, end time.Time, allDay bool, loc *time.Location) (dto.EventDateTime, dto.EventDateTime) {
	start = start.In(loc)
	end = end.In(loc)

	if allDay {
		// End holds the last day inclusive; the provider wants the day after.
		lastDay := end
		if lastDay.Before(start) {
			lastDay = start
		}
		return dto.EventDateTime{Date: start.Format(dateLayout)},
			dto.EventDateTime{Date: lastDay.AddDate(0, 0, 1).Format(dateLayout)}
	}

	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}

	tz := loc.String()
	return dto.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: tz},
		dto.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: tz}
}
