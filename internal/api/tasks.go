package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nyashahama/financial-agent-backend/internal/tasks"
)

// unknownTaskType labels a failure that happened before the task type could
// be read.
const unknownTaskType = "unknown"

// POST /execute_automated_task
//
// Always answers 200. Parse failures, generator failures and panics all come
// back as a status "failed" envelope.
func (s *Server) handleExecuteAutomatedTask(w http.ResponseWriter, r *http.Request) {
	taskType := unknownTaskType

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("execute_automated_task: panic",
				"panic", rec,
				"task_type", taskType,
				"request_id", middleware.GetReqID(r.Context()),
			)
			respond(w, http.StatusOK, tasks.Failed(taskType, fmt.Errorf("%v", rec)))
		}
	}()

	raw, err := readBody(w, r)
	if err == nil {
		var desc tasks.Descriptor
		desc, err = tasks.ParseDescriptor(raw)
		if err == nil {
			taskType = desc.TaskType
			res := s.dispatcher.Dispatch(context.WithoutCancel(r.Context()), desc)
			respond(w, http.StatusOK, res)
			return
		}
	}

	s.logger.Warn("execute_automated_task: unreadable body",
		"error", err,
		"request_id", middleware.GetReqID(r.Context()),
	)
	respond(w, http.StatusOK, tasks.Failed(unknownTaskType, err))
}
