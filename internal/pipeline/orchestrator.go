package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/antoniostano/medquery/internal/generation"
	"github.com/antoniostano/medquery/internal/memory"
	"github.com/antoniostano/medquery/internal/observability"
	"github.com/antoniostano/medquery/internal/policy"
	"github.com/antoniostano/medquery/internal/prompt"
	"github.com/antoniostano/medquery/internal/quota"
	"github.com/antoniostano/medquery/internal/retrieval"
	"github.com/antoniostano/medquery/internal/users"
)

// Answer is the successful result of a processed query.
type Answer struct {
	Text   string `json:"answer"`
	TurnID string `json:"turn_id"`
}

// Orchestrator runs the query pipeline: admit, retrieve, assemble, generate,
// record. State mutation (quota charge, memory append) happens only after a
// successful generation; every failure before that point is inert.
type Orchestrator struct {
	gate      *quota.Gate
	windows   *memory.WindowStore
	archive   memory.Archiver
	retriever retrieval.Retriever
	generator generation.Generator
	metrics   *observability.Metrics

	conversations *lockTable
}

func NewOrchestrator(
	gate *quota.Gate,
	windows *memory.WindowStore,
	archive memory.Archiver,
	retriever retrieval.Retriever,
	generator generation.Generator,
	metrics *observability.Metrics,
) *Orchestrator {
	return &Orchestrator{
		gate:          gate,
		windows:       windows,
		archive:       archive,
		retriever:     retriever,
		generator:     generator,
		metrics:       metrics,
		conversations: newLockTable(),
	}
}

// HandleQuery processes one query to completion.
func (o *Orchestrator) HandleQuery(ctx context.Context, userID, conversationID, question string) (Answer, error) {
	return o.run(ctx, userID, conversationID, question, nil)
}

// HandleQueryStream behaves like HandleQuery and additionally forwards
// generator deltas as they arrive. Quota and memory semantics are identical:
// the turn is recorded, and charged, only once the full answer exists.
func (o *Orchestrator) HandleQueryStream(ctx context.Context, userID, conversationID, question string, onDelta generation.DeltaHandler) (Answer, error) {
	return o.run(ctx, userID, conversationID, question, onDelta)
}

func (o *Orchestrator) run(ctx context.Context, userID, conversationID, question string, onDelta generation.DeltaHandler) (Answer, error) {
	// Serialize the whole run per conversation identity so two concurrent
	// turns cannot read the same prior window and both append.
	o.conversations.acquire(conversationID)
	o.metrics.SetActiveConversations(o.conversations.size())
	defer func() {
		o.conversations.release(conversationID)
		o.metrics.SetActiveConversations(o.conversations.size())
	}()

	started := time.Now()

	user, err := o.admit(ctx, userID)
	if err != nil {
		o.recordFailure(err)
		return Answer{}, err
	}
	o.metrics.ObserveStage("admit", time.Since(started))

	retrieveStart := time.Now()
	passages, err := o.retriever.Search(ctx, question)
	if err != nil {
		err = newError(KindRetrievalError, "retriever search failed", err)
		o.recordFailure(err)
		return Answer{}, err
	}
	o.metrics.ObserveStage("retrieve", time.Since(retrieveStart))

	history := o.windows.Load(conversationID)
	rendered := prompt.Render(question, passages, history)

	generateStart := time.Now()
	completion, err := o.generator.Complete(ctx, rendered, onDelta)
	if err != nil {
		err = newError(KindGenerationError, "generator completion failed", err)
		o.recordFailure(err)
		return Answer{}, err
	}
	o.metrics.ObserveStage("generate", time.Since(generateStart))

	// A cancelled caller must not be charged and must not grow the window,
	// even when the model happened to finish first.
	if err := ctx.Err(); err != nil {
		o.recordFailure(err)
		return Answer{}, err
	}

	turnID, err := o.record(ctx, user.ID, conversationID, question, completion.Text)
	if err != nil {
		o.recordFailure(err)
		return Answer{}, err
	}

	o.metrics.ObserveStage("total", time.Since(started))
	o.metrics.RecordOutcome("completed")

	return Answer{Text: completion.Text, TurnID: turnID}, nil
}

func (o *Orchestrator) admit(ctx context.Context, userID string) (users.User, error) {
	u, err := o.gate.Admit(ctx, userID)
	switch {
	case err == nil:
		return u, nil
	case errors.Is(err, quota.ErrQuotaExceeded):
		o.metrics.RecordQuotaRejection()
		return users.User{}, newError(KindQuotaExceeded, "query limit exceeded for this period", err)
	case errors.Is(err, users.ErrNotFound):
		return users.User{}, newError(KindUserNotFound, "unknown user", err)
	default:
		return users.User{}, newError(KindStoreUnavailable, "user store unreachable", err)
	}
}

// record charges quota, appends the turn to the bounded window and archives
// the transcript. Quota is charged first: an unreachable store at this point
// surfaces as a service error without growing the window.
func (o *Orchestrator) record(ctx context.Context, userID, conversationID, question, answer string) (string, error) {
	if err := o.gate.Charge(ctx, userID); err != nil {
		return "", newError(KindStoreUnavailable, "quota charge failed", err)
	}

	if err := o.windows.Append(conversationID, question, answer); err != nil {
		return "", newError(KindConversationCorruption, "memory window invariant broken", err)
	}

	turnID := uuid.NewString()
	if o.archive != nil {
		// The durable transcript is scrubbed; the in-memory window keeps the
		// raw text so follow-up prompts stay coherent within the session.
		redactedQ, _ := policy.RedactPII(question)
		redactedA, _ := policy.RedactPII(answer)
		record := memory.TurnRecord{
			ID:             turnID,
			UserID:         userID,
			ConversationID: conversationID,
			Question:       redactedQ,
			Answer:         redactedA,
		}
		// Best effort: losing an archive row never fails the query.
		if err := o.archive.SaveTurn(ctx, record); err != nil {
			log.Printf("transcript archive write failed: %v", err)
		}
	}

	return turnID, nil
}

func (o *Orchestrator) recordFailure(err error) {
	kind := KindOf(err)
	if kind == KindQuotaExceeded || kind == KindUserNotFound {
		o.metrics.RecordOutcome("rejected")
	} else {
		o.metrics.RecordOutcome("failed")
	}
	if kind != "" {
		o.metrics.RecordErrorKind(string(kind))
	}
}
