package verificationService

import (
	"testa/internal/api/verification"
	facePkg "testa/pkg/face"

	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/net/context"
)

// NewSessionForUser resolves the user's stored portrait, encodes it once
// and returns a session primed with the reference descriptor. Everything
// that can go wrong here is fatal for the websocket connection.
func (s *verificationService) NewSessionForUser(ctx context.Context, userID string) (*Session, error) {
	repo, err := s.authRepo.NewClient(false)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to create repository client: %v", err))
		return nil, err
	}

	user, err := repo.Users.GetByID(ctx, userID)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to fetch user %s: %v", userID, err))
		return nil, err
	}

	if strings.TrimSpace(user.AvatarURL) == "" {
		s.log.Warn(fmt.Sprintf("User %s has no reference portrait", userID))
		return nil, verification.ErrMissingReferencePortrait
	}

	referenceURL := user.AvatarURL
	if presigned, err := s.s3.PresignUrl(user.AvatarURL); err == nil {
		referenceURL = presigned
	} else {
		s.log.Warn(fmt.Sprintf("Presigning reference portrait failed, using raw URL: %v", err))
	}

	descriptor, err := s.buildReferenceDescriptor(ctx, referenceURL)
	if err != nil {
		return nil, err
	}

	return NewSession(s.log, s.engine, s.cfg, descriptor), nil
}

// buildReferenceDescriptor downloads the portrait and encodes the face in
// it. Transient fetch failures are retried with backoff; a portrait with no
// detectable face is not retried, the stored image will not grow a face.
func (s *verificationService) buildReferenceDescriptor(ctx context.Context, referenceURL string) (facePkg.Descriptor, error) {
	imgData, err := s.fetchReferenceImage(ctx, referenceURL)
	if err != nil {
		s.log.Error(fmt.Sprintf("Error fetching reference image: %v", err))
		return facePkg.Descriptor{}, verification.ErrReferenceUnreachable
	}

	faces, err := s.engine.Detect(imgData)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to encode reference image: %v", err))
		return facePkg.Descriptor{}, verification.ErrReferenceUnreadable
	}

	if len(faces) == 0 {
		s.log.Error("No face found in the reference image")
		return facePkg.Descriptor{}, verification.ErrNoFaceInReference
	}
	if len(faces) > 1 {
		s.log.Warn(fmt.Sprintf("Reference image contains %d faces, using the first", len(faces)))
	}

	return faces[0].Descriptor, nil
}

func (s *verificationService) fetchReferenceImage(ctx context.Context, referenceURL string) ([]byte, error) {
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))

	var imgData []byte
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, referenceURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				s.log.Warn(fmt.Sprintf("Failed to close response body: %v", err))
			}
		}()

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("reference image fetch returned %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("reference image fetch returned %d", resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxReferenceImageBytes))
		if err != nil {
			return retry.RetryableError(err)
		}

		if !strings.HasPrefix(http.DetectContentType(body), "image/") {
			return fmt.Errorf("reference URL did not return an image")
		}

		imgData = body
		return nil
	})
	if err != nil {
		return nil, err
	}

	return imgData, nil
}

const maxReferenceImageBytes = 10 << 20
