package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mbenaiss/whatsapp-session/models"
	"github.com/mbenaiss/whatsapp-session/session"
)

const maxMediaSize = 64 << 20

// media is a payload ready to be uploaded
type media struct {
	data     []byte
	mimeType string
}

// loadMedia fetches ref (http(s) URL, file:// URL or local path) and checks
// that its content matches kind.
func loadMedia(ctx context.Context, httpClient *http.Client, ref string, kind models.MessageKind) (media, error) {
	data, err := readMedia(ctx, httpClient, ref)
	if err != nil {
		return media{}, err
	}
	if len(data) == 0 {
		return media{}, fmt.Errorf("%w: media %s is empty", session.ErrInvalidArgument, ref)
	}
	if len(data) > maxMediaSize {
		return media{}, fmt.Errorf("%w: media %s exceeds %d bytes", session.ErrInvalidArgument, ref, maxMediaSize)
	}

	mt := mimetype.Detect(data)
	mimeType := mt.String()
	switch kind {
	case models.KindImage:
		if !strings.HasPrefix(mimeType, "image/") {
			return media{}, fmt.Errorf("%w: media %s is %s, not an image", session.ErrInvalidArgument, ref, mimeType)
		}
	case models.KindVoice:
		if !strings.HasPrefix(mimeType, "audio/") {
			return media{}, fmt.Errorf("%w: media %s is %s, not audio", session.ErrInvalidArgument, ref, mimeType)
		}
		// voice notes are played back as opus
		if mt.Is("audio/ogg") {
			mimeType = "audio/ogg; codecs=opus"
		}
	}

	return media{data: data, mimeType: mimeType}, nil
}

func readMedia(ctx context.Context, httpClient *http.Client, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return download(ctx, httpClient, ref)
	}

	path := ref
	if err == nil && u.Scheme == "file" {
		path = u.Path
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: media file %s does not exist", session.ErrInvalidArgument, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read media file: %w", err)
	}
	return data, nil
}

func download(ctx context.Context, httpClient *http.Client, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrInvalidArgument, err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download media %s: status %d", ref, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read media body: %w", err)
	}
	return data, nil
}
