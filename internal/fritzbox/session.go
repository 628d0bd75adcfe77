package fritzbox

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

type sessionInfo struct {
	SID       string `xml:"SID"`
	Challenge string `xml:"Challenge"`
	BlockTime int    `xml:"BlockTime"`
}

// ChallengeResponse computes the MD5 login response the box expects:
// challenge + "-" + hex(md5(utf16le(challenge + "-" + password))).
func ChallengeResponse(challenge, password string) (string, error) {
	plain := challenge + "-" + password

	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(plain))
	if err != nil {
		return "", fmt.Errorf("encode utf-16le: %w", err)
	}

	sum := md5.Sum(encoded)
	return challenge + "-" + hex.EncodeToString(sum[:]), nil
}

// Session returns current while it is still valid and logs in otherwise.
func (c *Client) Session(ctx context.Context, current Session) (Session, error) {
	if current.Valid(c.now()) {
		return current, nil
	}
	return c.Login(ctx)
}

// Login runs the challenge-response handshake against login_sid.lua and
// returns a fresh session. It never retries.
func (c *Client) Login(ctx context.Context) (Session, error) {
	s, err := c.login(ctx)
	if c.onLogin != nil {
		c.onLogin(err)
	}
	if err != nil {
		c.logger.Warn("login failed", zap.String("host", c.creds.Host), zap.Error(err))
		return Session{}, err
	}

	c.logger.Info("logged in", zap.String("host", c.creds.Host), zap.Time("expires_at", s.ExpiresAt))
	return s, nil
}

func (c *Client) login(ctx context.Context) (Session, error) {
	challengeInfo, err := c.fetchSessionInfo(ctx, nil)
	if err != nil {
		return Session{}, fmt.Errorf("%w: challenge: %w", ErrAuthentication, err)
	}

	challenge := strings.TrimSpace(challengeInfo.Challenge)
	if challenge == "" {
		return Session{}, fmt.Errorf("%w: no challenge in login response", ErrAuthentication)
	}

	response, err := ChallengeResponse(challenge, c.creds.Password)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	info, err := c.fetchSessionInfo(ctx, url.Values{
		"username": {c.creds.Username},
		"response": {response},
	})
	if err != nil {
		return Session{}, fmt.Errorf("%w: response: %w", ErrAuthentication, err)
	}

	sid := strings.TrimSpace(info.SID)
	if sid == "" || sid == NoSessionSID {
		if info.BlockTime > 0 {
			return Session{}, fmt.Errorf("%w: login rejected, box blocks logins for %ds", ErrAuthentication, info.BlockTime)
		}
		return Session{}, fmt.Errorf("%w: login rejected", ErrAuthentication)
	}

	return Session{SID: sid, ExpiresAt: c.now().Add(c.sidLifetime)}, nil
}

func (c *Client) fetchSessionInfo(ctx context.Context, params url.Values) (*sessionInfo, error) {
	status, body, err := c.get(ctx, loginPath, params)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, fmt.Errorf("unexpected status %d", status)
	}

	var info sessionInfo
	if err := xml.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parse session info: %w", err)
	}
	return &info, nil
}

// Validate is the setup-time connectivity check. Any failure collapses into
// ErrCannotConnect; the cause is only logged.
func (c *Client) Validate(ctx context.Context) error {
	if _, err := c.Login(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return ErrCannotConnect
	}
	return nil
}
