package server

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/validation"
)

func listPipes(m *Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondOK(c, m.Pipes())
	}
}

func listProgress(m *Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondOK(c, m.Progress())
	}
}

func getProgress(m *Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("tracker")
		state, ok := m.Tracker(name)
		if !ok {
			RespondWithError(c, errors.NotFound("tracker", name))
			return
		}
		RespondOK(c, state)
	}
}

func listRuns(m *Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		runs := m.Runs()
		RespondOKWithMeta(c, runs, &Meta{Total: len(runs)})
	}
}

func getRun(m *Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := validation.ValidateUUID("id", c.Param("id"))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		run, ok := m.Run(id.String())
		if !ok {
			RespondWithError(c, errors.NotFound("run", id.String()))
			return
		}
		RespondOK(c, run)
	}
}
