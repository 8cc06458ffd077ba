package yellowdi

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Token is an identity object usable as a registration key alongside
// types, independent of and finer-grained than a type. Named tokens are
// interned process-wide: every construction with the same name yields the
// identical token. Anonymous tokens are globally unique.
//
// Token is comparable and safe to use as a map key. Equality is reference
// identity of the underlying record, never structural: two tokens compare
// equal if and only if they are the same token.
type Token struct {
	rec *tokenRecord
}

type tokenRecord struct {
	name string // empty for anonymous tokens
	id   string // generated, used for anonymous identity display
}

// interned holds the canonical token per name. Tokens are created lazily
// on first use of a name and never removed; first writer wins under
// concurrent creation.
var interned = struct {
	sync.Mutex
	byName map[string]Token
}{byName: make(map[string]Token)}

// NewToken returns a token. With no name (or an empty one) the token is
// anonymous and never equal to any other token. With a name it is the
// canonical interned token for that name.
//
// Example:
//
//	primary := yellowdi.NewToken("primary-db")
//	primary == yellowdi.TokenFor("primary-db") // true
//	yellowdi.NewToken() == yellowdi.NewToken() // false
func NewToken(name ...string) Token {
	if len(name) > 0 && name[0] != "" {
		return TokenFor(name[0])
	}
	return Token{rec: &tokenRecord{id: uuid.NewString()}}
}

// TokenFor returns the canonical token for name, creating and interning it
// on first use. Interchangeable with NewToken(name); both consult the same
// registry.
func TokenFor(name string) Token {
	interned.Lock()
	defer interned.Unlock()

	if t, ok := interned.byName[name]; ok {
		return t
	}

	t := Token{rec: &tokenRecord{name: name, id: uuid.NewString()}}
	interned.byName[name] = t
	return t
}

// Name returns the token's name and whether it has one. Anonymous tokens
// have no name.
func (t Token) Name() (string, bool) {
	if t.rec == nil || t.rec.name == "" {
		return "", false
	}
	return t.rec.name, true
}

func (t Token) String() string {
	switch {
	case t.rec == nil:
		return "Token(<zero>)"
	case t.rec.name != "":
		return fmt.Sprintf("Token(%s)", t.rec.name)
	default:
		return fmt.Sprintf("Token(anonymous %s)", t.rec.id)
	}
}

// tokenWire is the serialized shape shared by the JSON and YAML codecs.
type tokenWire struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
}

func (t Token) wire() tokenWire {
	if t.rec == nil {
		return tokenWire{}
	}
	if t.rec.name != "" {
		return tokenWire{Name: t.rec.name}
	}
	return tokenWire{ID: t.rec.id}
}

func (w tokenWire) token() Token {
	if w.Name != "" {
		return TokenFor(w.Name)
	}
	id := w.ID
	if id == "" {
		id = uuid.NewString()
	}
	return Token{rec: &tokenRecord{id: id}}
}

// MarshalJSON encodes the token as {"name": ...}, or {"id": ...} for
// anonymous tokens.
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wire())
}

// UnmarshalJSON decodes a token. A named token decodes to the canonical
// interned instance, so identity survives the round trip. An anonymous
// token decodes to a distinct instance that keeps its serialized id.
func (t *Token) UnmarshalJSON(data []byte) error {
	var w tokenWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*t = w.token()
	return nil
}

// MarshalYAML implements yaml.Marshaler with the same shape as the JSON
// encoding.
func (t Token) MarshalYAML() (any, error) {
	return t.wire(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler; named tokens decode to the
// interned instance.
func (t *Token) UnmarshalYAML(node *yaml.Node) error {
	var w tokenWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	*t = w.token()
	return nil
}
