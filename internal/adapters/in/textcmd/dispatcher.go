package textcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"porterage/internal/core/application/usecases/commands"
	"porterage/internal/core/application/usecases/queries"
	"porterage/internal/core/domain/model/request"
	"porterage/internal/core/domain/services"
	"porterage/internal/pkg/errs"
	"porterage/internal/pkg/ratelimiter"
)

// Handlers are the use cases a text message can reach.
type Handlers struct {
	CreateRequest commands.CreateRequestCommandHandler
	Transition    commands.TransitionRequestCommandHandler
	CancelRequest commands.CancelRequestCommandHandler
	CancelPickup  commands.CancelPickupCommandHandler
	UndoRequest   commands.UndoRequestCommandHandler
	SignIn        commands.SignInPorterCommandHandler
	SignOut       commands.SignOutPorterCommandHandler
	ListRequests  queries.ListRequestsQueryHandler
	ListPorters   queries.ListPortersQueryHandler
}

// Dispatcher answers one message from one sender. The sender's identity is the
// actor of every command it issues.
type Dispatcher struct {
	handlers Handlers
	limiter  *ratelimiter.MapLimiter
	clock    commands.Clock
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher. A nil limiter disables debouncing.
func NewDispatcher(
	handlers Handlers,
	limiter *ratelimiter.MapLimiter,
	clock commands.Clock,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		handlers: handlers,
		limiter:  limiter,
		clock:    clock,
		logger:   logger.With("component", "text_dispatcher"),
	}
}

// Reply handles body sent by sender and returns the text to send back.
// It never fails: every error is rendered as a reply.
func (d *Dispatcher) Reply(ctx context.Context, sender, body string) string {
	if !d.limiter.Allow(sender, d.clock()) {
		return ThrottledReply
	}

	cmd, err := Parse(body)
	if err != nil {
		if errors.Is(err, ErrRequestFormat) {
			return FormatReply
		}
		return fmt.Sprintf("❌ Invalid request ID. %s", HelpHint)
	}

	reply, err := d.execute(ctx, sender, cmd)
	if err != nil {
		if errors.Is(err, errs.ErrValueIsRequired) {
			return unknownSenderReply
		}
		d.logger.ErrorContext(ctx, "Text command failed", "sender", sender, "verb", cmd.Verb, "error", err)
		return UnexpectedReply
	}

	d.logger.InfoContext(ctx, "Text command handled", "sender", sender, "verb", cmd.Verb)
	return reply
}

// HelpHint points users at the command list.
const HelpHint = "Send 'help' to see command list."

// execute returns an error only for failures the sender cannot fix by rephrasing.
func (d *Dispatcher) execute(ctx context.Context, sender string, cmd Command) (string, error) {
	switch cmd.Verb {
	case VerbSignIn:
		return d.signIn(ctx, sender)
	case VerbSignOut:
		return d.signOut(ctx, sender)
	case VerbPorters:
		return d.porters(ctx)
	case VerbQueue:
		return d.queue(ctx)
	case VerbRequest:
		return d.request(ctx, sender, cmd)
	case VerbPickup:
		return d.pickup(ctx, sender, cmd.ID)
	case VerbStart:
		return d.start(ctx, sender, cmd.ID)
	case VerbDone:
		return d.done(ctx, sender, cmd.ID)
	case VerbCancel:
		return d.cancel(ctx, sender, cmd.ID)
	case VerbCancelPickup:
		return d.cancelPickup(ctx, cmd.ID)
	case VerbUndo:
		return d.undo(ctx, cmd.ID)
	default:
		return HelpText, nil
	}
}

func (d *Dispatcher) signIn(ctx context.Context, sender string) (string, error) {
	cmd, err := commands.NewSignInPorterCommand(sender)
	if err != nil {
		return "", err
	}
	added, err := d.handlers.SignIn.Handle(ctx, cmd)
	if err != nil {
		return "", err
	}
	if !added {
		return alreadySignedInReply, nil
	}
	return signedInReply, nil
}

func (d *Dispatcher) signOut(ctx context.Context, sender string) (string, error) {
	cmd, err := commands.NewSignOutPorterCommand(sender)
	if err != nil {
		return "", err
	}
	removed, err := d.handlers.SignOut.Handle(ctx, cmd)
	if err != nil {
		return "", err
	}
	if !removed {
		return notSignedInReply, nil
	}
	return signedOutReply, nil
}

func (d *Dispatcher) porters(ctx context.Context) (string, error) {
	list, err := d.handlers.ListPorters.Handle(ctx, queries.NewListPortersQuery())
	if err != nil {
		return "", err
	}
	return portersReply(list), nil
}

func (d *Dispatcher) queue(ctx context.Context) (string, error) {
	query, err := queries.NewListRequestsQuery(queries.ScopeActive)
	if err != nil {
		return "", err
	}
	active, err := d.handlers.ListRequests.Handle(ctx, query)
	if err != nil {
		return "", err
	}
	return queueReply(active), nil
}

func (d *Dispatcher) request(ctx context.Context, sender string, c Command) (string, error) {
	priority := request.Normal
	if c.Urgent {
		priority = request.High
	}

	cmd, err := commands.NewCreateRequestCommand(c.From, c.To, priority, sender)
	if err != nil {
		if errors.Is(err, errs.ErrValueIsOutOfRange) {
			return FormatReply, nil
		}
		return "", err
	}

	created, err := d.handlers.CreateRequest.Handle(ctx, cmd)
	switch {
	case errors.Is(err, request.ErrSequenceExhausted):
		return "❌ The queue is full. Try again later.", nil
	case err != nil:
		return "", err
	}
	return createdReply(created), nil
}

func (d *Dispatcher) pickup(ctx context.Context, sender string, id int) (string, error) {
	cmd, err := commands.NewPickupCommand(id, sender)
	if err != nil {
		return "", err
	}

	_, err = d.handlers.Transition.Handle(ctx, cmd)
	switch {
	case err == nil:
		return fmt.Sprintf("✅ Request %d marked as 'pick up' 🛒", id), nil
	case errors.Is(err, services.ErrPorterNotSignedIn):
		return pickupNotSignedIn, nil
	case errors.Is(err, services.ErrPorterIsBusy):
		return pickupBusyReply, nil
	case isLifecycleError(err):
		return fmt.Sprintf("❌ No matching waiting request with ID: %d", id), nil
	default:
		return "", err
	}
}

func (d *Dispatcher) start(ctx context.Context, sender string, id int) (string, error) {
	cmd, err := commands.NewStartCommand(id, sender)
	if err != nil {
		return "", err
	}

	_, err = d.handlers.Transition.Handle(ctx, cmd)
	switch {
	case err == nil:
		return fmt.Sprintf("🚶 Transport for %d started.", id), nil
	case isLifecycleError(err):
		return fmt.Sprintf("❌ Cannot start. No active pickup for ID: %d", id), nil
	default:
		return "", err
	}
}

func (d *Dispatcher) done(ctx context.Context, sender string, id int) (string, error) {
	cmd, err := commands.NewFinishCommand(id, sender)
	if err != nil {
		return "", err
	}

	_, err = d.handlers.Transition.Handle(ctx, cmd)
	switch {
	case err == nil:
		return fmt.Sprintf("✅ Request %d marked as 'finished' ✅", id), nil
	case isLifecycleError(err):
		return fmt.Sprintf("❌ No matching active request with ID: %d", id), nil
	default:
		return "", err
	}
}

func (d *Dispatcher) cancel(ctx context.Context, sender string, id int) (string, error) {
	cmd, err := commands.NewCancelRequestCommand(id, sender)
	if err != nil {
		return "", err
	}

	_, err = d.handlers.CancelRequest.Handle(ctx, cmd)
	switch {
	case err == nil:
		return fmt.Sprintf("🗑️ Request %d cancelled.", id), nil
	case errors.Is(err, errs.ErrUnauthorized):
		return cancelDeniedReply, nil
	case isLifecycleError(err):
		return fmt.Sprintf("❌ No matching active request with ID: %d", id), nil
	default:
		return "", err
	}
}

func (d *Dispatcher) cancelPickup(ctx context.Context, id int) (string, error) {
	cmd, err := commands.NewCancelPickupCommand(id)
	if err != nil {
		return "", err
	}

	_, err = d.handlers.CancelPickup.Handle(ctx, cmd)
	switch {
	case err == nil:
		return fmt.Sprintf("↩️ Pickup of request %d cancelled, back in the queue.", id), nil
	case errors.Is(err, errs.ErrObjectNotFound):
		return fmt.Sprintf("❌ No request with ID: %d", id), nil
	case isLifecycleError(err):
		return fmt.Sprintf("❌ Request %d is not picked up.", id), nil
	default:
		return "", err
	}
}

func (d *Dispatcher) undo(ctx context.Context, id int) (string, error) {
	cmd, err := commands.NewUndoRequestCommand(id)
	if err != nil {
		return "", err
	}

	_, changed, err := d.handlers.UndoRequest.Handle(ctx, cmd)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return fmt.Sprintf("❌ No request with ID: %d", id), nil
	case err != nil:
		return "", err
	case !changed:
		return fmt.Sprintf("ℹ️ Request %d is already waiting.", id), nil
	default:
		return fmt.Sprintf("↩️ Request %d returned to the queue.", id), nil
	}
}

func isLifecycleError(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrInvalidTransition) ||
		errors.Is(err, errs.ErrUnauthorized) ||
		errors.Is(err, errs.ErrAlreadyFinished)
}
