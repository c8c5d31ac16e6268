package apiserver

import (
	"encoding/json"
	"net/http"

	"github.com/dadas-io/dadas/pkg/model"
	"github.com/sirupsen/logrus"
)

// writeError writes a JSON error body. msg is shown to users as is, so it
// never carries backend detail.
func writeError(w http.ResponseWriter, httpStatus int, msg string, data interface{}) {
	if httpStatus >= http.StatusInternalServerError {
		logrus.Debugf("got a response error: %d %s", httpStatus, msg)
	}
	o := model.ErrorResponse{
		Status:  httpStatus,
		Message: msg,
		Data:    data,
	}
	writeJSON(w, httpStatus, o)
}

func writeSuccess(w http.ResponseWriter, httpStatus int, data interface{}, msg string) {
	if msg != "" {
		data = model.MessageResponse{Message: msg, Data: data}
	}
	writeJSON(w, httpStatus, data)
}

func writeJSON(w http.ResponseWriter, httpStatus int, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		logrus.WithError(err).Error("unable to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_, _ = w.Write(res)
}
