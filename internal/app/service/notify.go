package service

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// NotifyClient posts job-created notes to the notification service.
// Delivery is fire-and-forget: failures are logged, never surfaced to the
// request that triggered them.
type NotifyClient struct {
	url    string
	client *http.Client
}

func NewNotifyClient(url string) *NotifyClient {
	return &NotifyClient{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *NotifyClient) JobCreated(note JobCreatedNote) {
	if n.url == "" {
		return
	}
	go n.post(note)
}

func (n *NotifyClient) post(note JobCreatedNote) {
	body, err := json.Marshal(note)
	if err != nil {
		logrus.WithError(err).Error("notification encode failed")
		return
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		logrus.WithError(err).WithField("job_id", note.JobID).Error("notification dispatch failed")
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		logrus.WithFields(logrus.Fields{
			"job_id": note.JobID,
			"status": resp.StatusCode,
		}).Error("notification rejected")
	}
}
