package handler

import (
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/kesona/askhub/internal/pkg/errcode"
	"github.com/kesona/askhub/internal/pkg/response"
)

// maxLogTailBytes bounds how much of the log file one request can pull back.
const maxLogTailBytes = 256 * 1024

// LogHandler serves the tail of the service log file as plain text.
type LogHandler struct {
	logFile string
}

func NewLogHandler(logFile string) *LogHandler {
	return &LogHandler{logFile: logFile}
}

func (h *LogHandler) Tail(c *gin.Context) {
	if h.logFile == "" {
		c.String(http.StatusOK, "logging to console only, no log file configured\n")
		return
	}
	f, err := os.Open(h.logFile)
	if err != nil {
		if os.IsNotExist(err) {
			c.String(http.StatusOK, "log file not created yet\n")
			return
		}
		response.Error(c, errcode.ErrInternal, "failed to open log file")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		response.Error(c, errcode.ErrInternal, "failed to stat log file")
		return
	}
	offset := int64(0)
	if info.Size() > maxLogTailBytes {
		offset = info.Size() - maxLogTailBytes
	}
	if _, err := f.Seek(offset, 0); err != nil {
		response.Error(c, errcode.ErrInternal, "failed to read log file")
		return
	}
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, f)
}
