package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MegaGrindStone/go-mockmcp"
	"github.com/MegaGrindStone/go-mockmcp/internal/dataset"
	"github.com/MegaGrindStone/go-mockmcp/internal/query"
)

// Server exposes the calendar dataset as MCP tools. It implements the
// mockmcp.ToolServer interface by delegating to its tool registry.
type Server struct {
	store *dataset.Store[Document]
	tools *mockmcp.ToolSet
	log   *mockmcp.LogStream
}

// Option configures a Server.
type Option func(*Server)

// WithLogStream routes per-tool diagnostics to the given stream.
func WithLogStream(log *mockmcp.LogStream) Option {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates a calendar server over the given store. The tool
// registry is built once here.
func NewServer(store *dataset.Store[Document], options ...Option) *Server {
	s := &Server{store: store}
	for _, opt := range options {
		opt(s)
	}

	s.tools = mockmcp.NewToolSet()
	s.tools.MustRegister(listCalendarsTool, s.listCalendars)
	s.tools.MustRegister(listEventsTool, s.listEvents)
	s.tools.MustRegister(createEventTool, s.createEvent)
	s.tools.MustRegister(updateEventTool, s.updateEvent)
	s.tools.MustRegister(deleteEventTool, s.deleteEvent)

	return s
}

// ToolSet returns the server's tool registry, for callers that merge
// several domains into one surface.
func (s *Server) ToolSet() *mockmcp.ToolSet {
	return s.tools
}

// ListTools implements the mockmcp.ToolServer interface.
func (s *Server) ListTools(ctx context.Context, params mockmcp.ListToolsParams) (mockmcp.ListToolsResult, error) {
	return s.tools.ListTools(ctx, params)
}

// CallTool implements the mockmcp.ToolServer interface.
func (s *Server) CallTool(ctx context.Context, params mockmcp.CallToolParams) (mockmcp.CallToolResult, error) {
	return s.tools.CallTool(ctx, params)
}

func (s *Server) logf(level mockmcp.LogLevel, format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.Logf(level, format, args...)
}

func (s *Server) listCalendars(ctx context.Context, _ json.RawMessage) (any, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return map[string]any{"calendars": doc.Calendars}, nil
}

func (s *Server) listEvents(ctx context.Context, args json.RawMessage) (any, error) {
	var params listEventsArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	var timeMin, timeMax time.Time
	var err error
	if params.TimeMin != "" {
		if timeMin, err = query.ParseTime(params.TimeMin); err != nil {
			return nil, dataset.NewInvalidArgument("time_min", params.TimeMin, "not a valid timestamp")
		}
	}
	if params.TimeMax != "" {
		if timeMax, err = query.ParseTime(params.TimeMax); err != nil {
			return nil, dataset.NewInvalidArgument("time_max", params.TimeMax, "not a valid timestamp")
		}
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if params.CalendarID != "" && !doc.hasCalendar(params.CalendarID) {
		return nil, dataset.NewReferenceNotFound("calendar_id", params.CalendarID)
	}

	events := doc.filterEvents(params.CalendarID, timeMin, timeMax)
	s.logf(mockmcp.LogLevelDebug, "list_events matched %d of %d events", len(events), len(doc.Events))

	return map[string]any{"events": events}, nil
}

func (s *Server) createEvent(ctx context.Context, args json.RawMessage) (any, error) {
	var params createEventArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	if params.Summary == "" {
		return nil, dataset.NewInvalidArgument("summary", params.Summary, "must not be empty")
	}
	if _, err := query.ParseTime(params.StartTime); err != nil {
		return nil, dataset.NewInvalidArgument("start_time", params.StartTime, "not a valid timestamp")
	}
	if _, err := query.ParseTime(params.EndTime); err != nil {
		return nil, dataset.NewInvalidArgument("end_time", params.EndTime, "not a valid timestamp")
	}

	timeZone := params.TimeZone
	if timeZone == "" {
		timeZone = defaultTimeZone
	}

	created := Event{
		ID:          uuid.NewString(),
		CalendarID:  params.CalendarID,
		Summary:     params.Summary,
		Description: params.Description,
		Start:       EventTime{DateTime: params.StartTime, TimeZone: timeZone},
		End:         EventTime{DateTime: params.EndTime, TimeZone: timeZone},
		Location:    params.Location,
		Status:      "confirmed",
		Reminders:   Reminders{UseDefault: true, Overrides: []ReminderOverride{}},
	}

	_, err := s.store.Update(ctx, func(doc Document) (Document, error) {
		if !doc.hasCalendar(params.CalendarID) {
			return doc, dataset.NewReferenceNotFound("calendar_id", params.CalendarID)
		}
		doc.Events = append(doc.Events, created)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	s.logf(mockmcp.LogLevelInfo, "created event %s in calendar %s", created.ID, created.CalendarID)

	return created, nil
}

func (s *Server) updateEvent(ctx context.Context, args json.RawMessage) (any, error) {
	var params updateEventArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	if params.StartTime != nil {
		if _, err := query.ParseTime(*params.StartTime); err != nil {
			return nil, dataset.NewInvalidArgument("start_time", *params.StartTime, "not a valid timestamp")
		}
	}
	if params.EndTime != nil {
		if _, err := query.ParseTime(*params.EndTime); err != nil {
			return nil, dataset.NewInvalidArgument("end_time", *params.EndTime, "not a valid timestamp")
		}
	}

	var updated Event
	_, err := s.store.Update(ctx, func(doc Document) (Document, error) {
		if !doc.hasCalendar(params.CalendarID) {
			return doc, dataset.NewReferenceNotFound("calendar_id", params.CalendarID)
		}
		idx, ok := doc.findEvent(params.CalendarID, params.EventID)
		if !ok {
			return doc, dataset.NewTargetNotFound("event_id", params.EventID)
		}

		event := doc.Events[idx]
		if params.Summary != nil {
			event.Summary = *params.Summary
		}
		if params.Description != nil {
			event.Description = params.Description
		}
		if params.Location != nil {
			event.Location = params.Location
		}
		if params.StartTime != nil {
			event.Start.DateTime = *params.StartTime
		}
		if params.EndTime != nil {
			event.End.DateTime = *params.EndTime
		}

		doc.Events[idx] = event
		updated = event
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	s.logf(mockmcp.LogLevelInfo, "updated event %s in calendar %s", updated.ID, updated.CalendarID)

	return updated, nil
}

func (s *Server) deleteEvent(ctx context.Context, args json.RawMessage) (any, error) {
	var params deleteEventArgs
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, err
	}

	var deleted Event
	_, err := s.store.Update(ctx, func(doc Document) (Document, error) {
		if !doc.hasCalendar(params.CalendarID) {
			return doc, dataset.NewReferenceNotFound("calendar_id", params.CalendarID)
		}
		idx, ok := doc.findEvent(params.CalendarID, params.EventID)
		if !ok {
			return doc, dataset.NewTargetNotFound("event_id", params.EventID)
		}

		deleted = doc.Events[idx]
		doc.Events = append(doc.Events[:idx], doc.Events[idx+1:]...)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}

	s.logf(mockmcp.LogLevelInfo, "deleted event %s from calendar %s", deleted.ID, deleted.CalendarID)

	return map[string]any{
		"message":       fmt.Sprintf("Event %q deleted successfully", params.EventID),
		"deleted_event": deleted,
	}, nil
}
