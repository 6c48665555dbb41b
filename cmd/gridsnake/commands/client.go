package commands

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
}

// apiCall sends body, if any, as json and decodes the json response into out.
func apiCall(method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "unable to marshal request")
		}
	}
	req, err := http.NewRequest(method, apiAddr+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "error while calling %s", path)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.WithError(err).Warn("error while closing body")
		}
	}()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "unable to read response body")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("%s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.WithFields(log.Fields{
			"resp": string(data),
			"path": path,
		}).Info("unable to unmarshal response")
		return errors.Wrap(err, "unable to unmarshal response")
	}
	return nil
}
