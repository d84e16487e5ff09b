package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/airvent/subscription/internal/client/client"
	"github.com/airvent/subscription/internal/client/config"
	"github.com/airvent/subscription/internal/common"
	"github.com/airvent/subscription/internal/identity"
	"github.com/airvent/subscription/internal/rpc"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type App struct {
	config *config.Config
	output string
	out    io.Writer
	in     *bufio.Reader
	dial   func(c *config.Config) (client.Client, error)
	now    func() time.Time
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		output: outputText,
		out:    os.Stdout,
		in:     bufio.NewReader(os.Stdin),
		dial: func(c *config.Config) (client.Client, error) {
			return client.NewSubscriptionClient(c.ServerEndpointAddr, c.RequestTimeout)
		},
		now: time.Now,
	}
}

func (a *App) withClient(fn func(client.Client) error) error {
	c, err := a.dial(a.config)
	if err != nil {
		return fmt.Errorf("connect %s: %w", a.config.ServerEndpointAddr, err)
	}
	defer c.Close()
	return fn(c)
}

// loadKey decrypts the configured key file, prompting for the passphrase
// if needed.
func (a *App) loadKey() (*identity.Keypair, error) {
	pass, err := GetPassphrase(a.out, false)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(pass)

	return identity.LoadKeyFile(a.config.KeyFile, pass)
}

// resolveOwner parses s, or falls back to the identity stored in the key
// file when s is empty. The key file is not decrypted.
func (a *App) resolveOwner(s string) (identity.Identity, error) {
	if s != "" {
		return identity.Parse(s)
	}
	return identity.ReadKeyFileIdentity(a.config.KeyFile)
}

func (a *App) sign(kp *identity.Keypair, intent identity.Intent) (string, error) {
	return identity.SignProof(kp, intent, a.now(), a.config.ProofValidityDuration)
}

type stateView struct {
	Address        string `json:"address"`
	Owner          string `json:"owner"`
	Authority      string `json:"authority"`
	Tier           string `json:"tier"`
	OffchainPoints uint64 `json:"offchain_points"`
	HardwareID     string `json:"hardware_id"`
	JoinedAt       string `json:"joined_at"`
	Bump           uint8  `json:"bump"`
}

func tierName(t uint8) string {
	switch t {
	case rpc.TierFree:
		return "free"
	case rpc.TierPremium:
		return "premium"
	default:
		return "unknown"
	}
}

func newStateView(st *rpc.UserState) stateView {
	return stateView{
		Address:        st.Address.String(),
		Owner:          st.Owner.String(),
		Authority:      st.Authority.String(),
		Tier:           tierName(st.Tier),
		OffchainPoints: st.OffchainPoints,
		HardwareID:     st.HardwareID,
		JoinedAt:       time.Unix(st.JoinedAtUnix, 0).UTC().Format(time.RFC3339),
		Bump:           st.Bump,
	}
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *App) printState(st *rpc.UserState) error {
	v := newStateView(st)
	if a.output == outputJSON {
		return a.printJSON(v)
	}

	hw := v.HardwareID
	if hw == "" {
		hw = "-"
	}
	_, err := fmt.Fprintf(a.out,
		"Address:          %s\nOwner:            %s\nAuthority:        %s\nTier:             %s\nOff-chain points: %d\nHardware ID:      %s\nJoined at:        %s\nBump:             %d\n",
		v.Address, v.Owner, v.Authority, v.Tier, v.OffchainPoints, hw, v.JoinedAt, v.Bump)
	return err
}
