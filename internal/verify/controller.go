package verify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/KaruG1999/roster/internal/metrics"
	"github.com/KaruG1999/roster/internal/registry"
	"github.com/KaruG1999/roster/internal/types"
)

// defaultBulkDelay is the pause between users during a bulk run, staggering
// starts so validations do not burst the proxy endpoint.
const defaultBulkDelay = time.Second

// Notifier posts a user-facing notice; nil-safe at the Controller level
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Controller runs validations one at a time per user. A second activation
// for a user already in flight is rejected, not queued: exactly one request
// goes out and exactly one snapshot write happens per activation.
type Controller struct {
	store    *registry.Store
	verifier *Verifier
	notifier Notifier

	bulkDelay time.Duration

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// ControllerOption configures the Controller
type ControllerOption func(*Controller)

// WithBulkDelay overrides the pause between users during bulk validation
func WithBulkDelay(delay time.Duration) ControllerOption {
	return func(c *Controller) {
		if delay >= 0 {
			c.bulkDelay = delay
		}
	}
}

// WithNotifier sets an outcome notifier
func WithNotifier(n Notifier) ControllerOption {
	return func(c *Controller) {
		c.notifier = n
	}
}

// NewController creates a validation controller over the store and verifier
func NewController(store *registry.Store, verifier *Verifier, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:     store,
		verifier:  verifier,
		bulkDelay: defaultBulkDelay,
		inFlight:  make(map[int64]struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// begin marks the user in flight, reporting whether this caller won the slot
func (c *Controller) begin(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, busy := c.inFlight[id]; busy {
		return false
	}

	c.inFlight[id] = struct{}{}

	return true
}

// finish clears the in-flight mark for the user
func (c *Controller) finish(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inFlight, id)
}

// Validate runs one validation for the user, writes the verdict into the
// record, and persists the snapshot. It returns ErrValidationInFlight when
// a validation for the same id is already running, and
// registry.ErrUserNotFound for unknown ids.
func (c *Controller) Validate(ctx context.Context, id int64) (types.User, error) {
	user, ok := c.store.Get(id)
	if !ok {
		return types.User{}, registry.ErrUserNotFound
	}

	if !c.begin(id) {
		return types.User{}, fmt.Errorf("%w: id %d", ErrValidationInFlight, id)
	}
	defer c.finish(id)

	revalidation := user.Verdict.Checked()

	log.Info().Int64("user_id", id).Str("email", user.Email).Bool("revalidation", revalidation).Msg("validating email")

	verdict := c.verifier.Verify(ctx, user.Email)

	updated, err := c.store.SetVerdict(id, verdict)
	if err != nil {
		// The user can disappear while the request is in flight.
		return types.User{}, err
	}

	metrics.ObserveVerdict(verdict.Status)
	c.notify(ctx, updated)

	log.Info().Int64("user_id", id).Str("status", string(verdict.Status)).Str("reason", verdict.Reason).Msg("validation complete")

	return updated, nil
}

// notify surfaces the outcome notice when a notifier is configured
func (c *Controller) notify(ctx context.Context, user types.User) {
	if c.notifier == nil {
		return
	}

	var text string
	switch user.Verdict.Status {
	case types.VerdictValid:
		text = fmt.Sprintf("email for %s validated: %s", user.Name, user.Verdict.Reason)
	case types.VerdictInvalid:
		text = fmt.Sprintf("email for %s is invalid: %s", user.Name, user.Verdict.Reason)
	default:
		text = fmt.Sprintf("email check for %s could not complete: %s", user.Name, user.Verdict.Reason)
	}

	if err := c.notifier.Send(ctx, text); err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("outcome notification failed")
	}
}

// Outcome describes one user's result from a bulk validation run
type Outcome struct {
	// ID is the user id
	ID int64 `json:"id"`
	// Name is the user name
	Name string `json:"name"`
	// Email is the address that was checked
	Email string `json:"email"`
	// Verdict is the resulting verdict when the validation ran
	Verdict types.Verdict `json:"verdict"`
	// Skipped reports that another validation for this user was in flight
	Skipped bool `json:"skipped,omitempty"`
}

// ValidateAll validates every not-yet-checked user sequentially, pausing
// between users. Each user goes through the same single-flight Validate
// path. The run stops early when the context is cancelled, returning the
// outcomes gathered so far.
func (c *Controller) ValidateAll(ctx context.Context) ([]Outcome, error) {
	ids := c.store.UncheckedIDs()

	log.Info().Int("pending", len(ids)).Msg("starting bulk validation")

	outcomes := make([]Outcome, 0, len(ids))

	for i, id := range ids {
		if i > 0 {
			select {
			case <-ctx.Done():
				return outcomes, ctx.Err()
			case <-time.After(c.bulkDelay):
			}
		}

		user, err := c.Validate(ctx, id)

		switch {
		case errors.Is(err, registry.ErrUserNotFound):
			// Deleted since the id list was taken.
			continue
		case errors.Is(err, ErrValidationInFlight):
			if current, ok := c.store.Get(id); ok {
				outcomes = append(outcomes, Outcome{ID: id, Name: current.Name, Email: current.Email, Skipped: true})
			}
			continue
		case err != nil:
			return outcomes, err
		}

		outcomes = append(outcomes, Outcome{
			ID:      user.ID,
			Name:    user.Name,
			Email:   user.Email,
			Verdict: user.Verdict,
		})
	}

	return outcomes, nil
}
