// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `CARDS_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the app fails fast if
// a field is missing or out of range.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Form section
//

// Form controls the card form.
//
// VerifyScope picks the table whose last card confirms a submission:
// "last" checks the board's last table, "target" the submitted table.
type Form struct {
	VerifyScope  string `koanf:"verify_scope"   validate:"required,oneof=last target"`
	Definition   string `koanf:"definition"` // optional YAML path, relative to root
	MaxLiveForms int    `koanf:"max_live_forms" validate:"min=1"`
}

//
// Board section
//

// Board points at the seed file for the in-memory board.
type Board struct {
	SeedFile string `koanf:"seed_file" validate:"required"`
}

//
// CSRF section
//

// CSRF holds the token key.  Base64url, at least 32 bytes decoded.  Empty
// means an ephemeral key.
type CSRF struct {
	Key string `koanf:"key"`
}

//
// Log section
//

// Log controls the console tee.  File logging is always on.
type Log struct {
	Tee bool `koanf:"tee"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // CARDS_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load().
type Config struct {
	HTTP  HTTP  `koanf:"http"`
	Form  Form  `koanf:"form"`
	Board Board `koanf:"board"`
	CSRF  CSRF  `koanf:"csrf"`
	Log   Log   `koanf:"log"`
	Paths Paths `koanf:"-"`
}

// Defaults returns the values used for keys absent from every layer.
func Defaults() Config {
	return Config{
		HTTP:  HTTP{ListenAddr: ":8080"},
		Form:  Form{VerifyScope: "last", MaxLiveForms: 1024},
		Board: Board{SeedFile: "conf/board.yaml"},
	}
}
