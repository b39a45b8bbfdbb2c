package whatsapp

import (
	"fmt"
	"strings"

	"github.com/mbenaiss/whatsapp-session/session"
	"go.mau.fi/whatsmeow/types"
)

// parseJID accepts a full JID ("123@s.whatsapp.net", "123-456@g.us") or a
// phone number with country code, optionally prefixed with '+'.
func parseJID(recipient string) (types.JID, error) {
	recipient = strings.TrimPrefix(strings.TrimSpace(recipient), "+")
	if recipient == "" {
		return types.JID{}, fmt.Errorf("%w: recipient is empty", session.ErrInvalidRecipient)
	}

	if strings.Contains(recipient, "@") {
		jid, err := types.ParseJID(recipient)
		if err != nil {
			return types.JID{}, fmt.Errorf("%w: %v", session.ErrInvalidRecipient, err)
		}
		return jid, nil
	}

	for _, r := range recipient {
		if r < '0' || r > '9' {
			return types.JID{}, fmt.Errorf("%w: %q is neither a JID nor a phone number", session.ErrInvalidRecipient, recipient)
		}
	}

	return types.NewJID(recipient, types.DefaultUserServer), nil
}
