package session

import (
	"encoding/json"
	"fmt"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/pkg/security"
)

// sealer encrypts the whole session record before it reaches a store.
type sealer struct {
	enc security.Encryptor
}

func newSealer(key string) (*sealer, error) {
	k, err := security.KeyFromString(key)
	if err != nil {
		return nil, fmt.Errorf("invalid session key: %w", err)
	}
	enc, err := security.NewAESEncryptor(k)
	if err != nil {
		return nil, fmt.Errorf("invalid session key: %w", err)
	}
	return &sealer{enc: enc}, nil
}

func (s *sealer) seal(sess *model.AdminSession) (string, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	return security.EncryptString(s.enc, string(raw))
}

func (s *sealer) open(sealed string) (*model.AdminSession, error) {
	raw, err := security.DecryptString(s.enc, sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt session: %w", err)
	}
	var sess model.AdminSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}
