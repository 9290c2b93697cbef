package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	httpclient "github.com/appleboy/go-httpclient"

	"github.com/fmtlab/fmtlab/internal/config"
)

// DirectoryValidator validates credentials against the enterprise directory
// gateway over HTTPS. It makes a single attempt per call: a timeout or
// connection failure is surfaced as an error, never as a wrong password.
type DirectoryValidator struct {
	config *config.Config
	client *http.Client
}

// NewDirectoryValidator creates a validator from the directory settings.
func NewDirectoryValidator(cfg *config.Config) (*DirectoryValidator, error) {
	client, err := httpclient.NewAuthClient(
		cfg.DirectoryAuthMode,
		cfg.DirectoryAuthSecret,
		httpclient.WithTimeout(cfg.DirectoryTimeout),
		httpclient.WithHeaderName(cfg.DirectoryAuthHeader),
		httpclient.WithInsecureSkipVerify(cfg.DirectoryInsecureSkipVerify),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory client: %w", err)
	}

	return &DirectoryValidator{
		config: cfg,
		client: client,
	}, nil
}

// directoryRequest is the payload sent to the directory gateway
type directoryRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// directoryResponse is the expected response from the directory gateway
type directoryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Validate checks a username/password pair against the directory. It returns
// (false, nil) when the directory rejected the credentials and a non-nil
// error for connectivity or protocol failures.
func (v *DirectoryValidator) Validate(
	ctx context.Context,
	username, password string,
) (bool, error) {
	jsonData, err := json.Marshal(directoryRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		v.config.DirectoryURL,
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDirectoryConnection, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDirectoryConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("%w: failed to read response", ErrDirectoryInvalidResp)
	}

	// Check HTTP status code before attempting to parse JSON
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Limit body preview to 200 characters to avoid overwhelming logs
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		return false, fmt.Errorf(
			"%w: HTTP %d - %s",
			ErrDirectoryInvalidResp,
			resp.StatusCode,
			bodyPreview,
		)
	}

	var dirResp directoryResponse
	if err := json.Unmarshal(body, &dirResp); err != nil {
		return false, fmt.Errorf("%w: %v", ErrDirectoryInvalidResp, err)
	}

	return dirResp.Success, nil
}

// Name returns validator name for logging
func (v *DirectoryValidator) Name() string {
	return "directory"
}
