package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store is the one interface allowed to reach the remote testimonial
// table. The synchronization controller only ever talks through it.
type Store interface {
	List(ctx context.Context, includeUnapproved bool) ([]Testimonial, error)
	Create(ctx context.Context, draft Draft) (Testimonial, error)
	Remove(ctx context.Context, id string) (bool, error)
	SetApproval(ctx context.Context, id string, approved bool) (bool, error)
	SubscribeChanges(ctx context.Context, handler func(ChangeEvent)) (func(), error)
}

// ChangeEvent signals that some row changed. It is not a delta; receivers
// should re-list and take the latest server truth.
type ChangeEvent struct {
	Op string `json:"op"`
	ID string `json:"id"`
}

// Draft carries everything a submission provides. Identity, timestamps and
// the verification flag are always server-assigned.
type Draft struct {
	Name     string
	Type     string
	Written  *WrittenContent
	Linkedin *LinkedinContent
	Tags     []string
	Rating   *int
	Date     *string
	Source   *string

	// Image is an optional attachment; it is encoded into a data URI
	// before the record is written, there is no object storage.
	Image io.Reader
}

// Client implements Store against the wall service HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (v *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(v.token) > 0 {
		req.Header.Set("Authorization", "Bearer "+v.token)
	}

	return req, nil
}

// List returns testimonials newest first. When includeUnapproved is set the
// moderator view is requested, otherwise only approved records come back.
// On failure the slice is empty and the error is recoverable.
func (v *Client) List(ctx context.Context, includeUnapproved bool) ([]Testimonial, error) {
	path := "/api/testimonials"
	if includeUnapproved {
		path += "?all=true"
	}

	req, err := v.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return []Testimonial{}, err
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return []Testimonial{}, fmt.Errorf("failed to list testimonials: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return []Testimonial{}, fmt.Errorf("failed to read response body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return []Testimonial{}, fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, raw)
	}

	var result struct {
		Count int64    `json:"count"`
		Data  []Record `json:"data"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return []Testimonial{}, fmt.Errorf("failed to parse testimonial list: %v", err)
	}

	return lo.Map(result.Data, func(rec Record, _ int) Testimonial {
		return FromRecord(rec)
	}), nil
}

// Create submits a draft and returns the stored record. An attached image
// is encoded first; if encoding fails the create aborts before any network
// call is made.
func (v *Client) Create(ctx context.Context, draft Draft) (Testimonial, error) {
	if draft.Image != nil {
		uri, err := encodeImageDataURI(draft.Image)
		if err != nil {
			return Testimonial{}, fmt.Errorf("failed to encode image attachment: %v", err)
		}
		switch draft.Type {
		case TypeLinkedin:
			content := LinkedinContent{}
			if draft.Linkedin != nil {
				content = *draft.Linkedin
			}
			content.ImageURL = &uri
			draft.Linkedin = &content
		default:
			content := WrittenContent{}
			if draft.Written != nil {
				content = *draft.Written
			}
			content.AvatarURL = &uri
			draft.Written = &content
		}
	}

	rec := ToRecord(Testimonial{
		Name:     draft.Name,
		Type:     draft.Type,
		Written:  draft.Written,
		Linkedin: draft.Linkedin,
		Tags:     draft.Tags,
		Rating:   draft.Rating,
		Date:     draft.Date,
		Source:   draft.Source,
	})

	body, err := json.Marshal(rec)
	if err != nil {
		return Testimonial{}, err
	}

	req, err := v.newRequest(ctx, http.MethodPost, "/api/testimonials", body)
	if err != nil {
		return Testimonial{}, err
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return Testimonial{}, fmt.Errorf("failed to create testimonial: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Testimonial{}, fmt.Errorf("failed to read response body: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return Testimonial{}, fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, raw)
	}

	var stored Record
	if err := json.Unmarshal(raw, &stored); err != nil {
		return Testimonial{}, fmt.Errorf("failed to parse stored testimonial: %v", err)
	}

	return FromRecord(stored), nil
}

// Remove deletes by id. It reports whether a row was actually removed;
// deleting something already gone returns false without an error.
func (v *Client) Remove(ctx context.Context, id string) (bool, error) {
	req, err := v.newRequest(ctx, http.MethodDelete, "/api/admin/testimonials/"+id, nil)
	if err != nil {
		return false, err
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to delete testimonial: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// SetApproval flips only the approval flag.
func (v *Client) SetApproval(ctx context.Context, id string, approved bool) (bool, error) {
	body, err := json.Marshal(map[string]bool{"approved": approved})
	if err != nil {
		return false, err
	}

	req, err := v.newRequest(ctx, http.MethodPut, "/api/admin/testimonials/"+id+"/approval", body)
	if err != nil {
		return false, err
	}

	resp, err := v.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to update testimonial approval: %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// SubscribeChanges opens the push channel and invokes handler on every
// change notification until the returned cancel func is called.
func (v *Client) SubscribeChanges(ctx context.Context, handler func(ChangeEvent)) (func(), error) {
	endpoint := v.baseURL + "/api/testimonials/changes"
	endpoint = strings.Replace(endpoint, "http://", "ws://", 1)
	endpoint = strings.Replace(endpoint, "https://", "wss://", 1)

	header := http.Header{}
	if len(v.token) > 0 {
		header.Set("Authorization", "Bearer "+v.token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream: %v", err)
	}

	go func() {
		for {
			var event ChangeEvent
			if err := conn.ReadJSON(&event); err != nil {
				log.Debug().Err(err).Msg("The change stream is closed...")
				return
			}
			handler(event)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = conn.Close()
		})
	}, nil
}

// encodeImageDataURI reads the whole attachment and embeds it as a
// self-contained data URI.
func encodeImageDataURI(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image attachment is empty")
	}

	mime := http.DetectContentType(data)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
