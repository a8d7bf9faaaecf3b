package hooks_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reins/pkg/hooks"
	"github.com/papercomputeco/reins/pkg/task"
)

type scriptedPre struct {
	id     string
	result hooks.PreResult
	err    error
	panics bool
	calls  int
}

func (s *scriptedPre) ID() string { return s.id }

func (s *scriptedPre) Pre(_ context.Context, _ *hooks.Invocation) (hooks.PreResult, error) {
	s.calls++
	if s.panics {
		panic("scripted panic")
	}
	return s.result, s.err
}

type scriptedPost struct {
	id    string
	err   error
	calls int
}

func (s *scriptedPost) ID() string { return s.id }

func (s *scriptedPost) Post(_ context.Context, _ *hooks.Invocation, _ string) error {
	s.calls++
	return s.err
}

func invocation(tool string) *hooks.Invocation {
	return &hooks.Invocation{
		Tool:   tool,
		Params: map[string]any{},
		Task:   task.New("t-1", "/tmp/ws", ""),
	}
}

var _ = Describe("Registry pre-hooks", func() {
	var registry *hooks.Registry

	BeforeEach(func() {
		registry = hooks.NewRegistry(nil)
	})

	It("allows when no hooks are registered", func() {
		Expect(registry.RunPre(context.Background(), invocation("x"), nil)).To(BeTrue())
	})

	It("runs hooks in registration order and short-circuits on block", func() {
		first := &scriptedPre{id: "first", result: hooks.Allowed()}
		second := &scriptedPre{id: "second", result: hooks.Blocked(
			hooks.NewToolError("x", hooks.ReasonUserRejected, "no"),
		)}
		third := &scriptedPre{id: "third", result: hooks.Allowed()}
		registry.RegisterPre(first)
		registry.RegisterPre(second)
		registry.RegisterPre(third)

		var captured *hooks.ToolError
		allowed := registry.RunPre(context.Background(), invocation("x"), func(e *hooks.ToolError) {
			captured = e
		})

		Expect(allowed).To(BeFalse())
		Expect(first.calls).To(Equal(1))
		Expect(third.calls).To(BeZero())
		Expect(captured).NotTo(BeNil())
		Expect(captured.Reason).To(Equal(hooks.ReasonUserRejected))
	})

	It("continues past a faulting hook", func() {
		faulty := &scriptedPre{id: "faulty", err: errors.New("disk on fire")}
		after := &scriptedPre{id: "after", result: hooks.Allowed()}
		registry.RegisterPre(faulty)
		registry.RegisterPre(after)

		Expect(registry.RunPre(context.Background(), invocation("x"), nil)).To(BeTrue())
		Expect(after.calls).To(Equal(1))
	})

	It("continues past a panicking hook", func() {
		registry.RegisterPre(&scriptedPre{id: "boom", panics: true})
		after := &scriptedPre{id: "after", result: hooks.Allowed()}
		registry.RegisterPre(after)

		Expect(registry.RunPre(context.Background(), invocation("x"), nil)).To(BeTrue())
		Expect(after.calls).To(Equal(1))
	})

	It("ignores duplicate registrations", func() {
		a := &scriptedPre{id: "same", result: hooks.Allowed()}
		b := &scriptedPre{id: "same", result: hooks.Blocked(hooks.NewToolError("x", "r", "m"))}
		registry.RegisterPre(a)
		registry.RegisterPre(b)

		Expect(registry.RunPre(context.Background(), invocation("x"), nil)).To(BeTrue())
		Expect(a.calls).To(Equal(1))
		Expect(b.calls).To(BeZero())
	})

	It("unregisters by id", func() {
		blocker := &scriptedPre{id: "blocker", result: hooks.Blocked(hooks.NewToolError("x", "r", "m"))}
		registry.RegisterPre(blocker)
		registry.UnregisterPre("blocker")

		Expect(registry.RunPre(context.Background(), invocation("x"), nil)).To(BeTrue())
	})
})

var _ = Describe("Registry post-hooks", func() {
	It("runs every post-hook even when one fails", func() {
		registry := hooks.NewRegistry(nil)
		failing := &scriptedPost{id: "failing", err: errors.New("ledger unwritable")}
		healthy := &scriptedPost{id: "healthy"}
		registry.RegisterPost(failing)
		registry.RegisterPost(healthy)

		registry.RunPost(context.Background(), invocation("x"), "done")

		Expect(failing.calls).To(Equal(1))
		Expect(healthy.calls).To(Equal(1))
	})
})

var _ = Describe("ToolError", func() {
	It("serializes the full payload", func() {
		e := hooks.NewToolError("write_to_file", hooks.ReasonScopeViolation, "outside owned scope").
			WithIntent("INT-1").
			WithFile("docs/a.md")

		Expect(e.JSON()).To(MatchJSON(`{
			"type": "tool_error",
			"tool": "write_to_file",
			"reason": "scope_violation",
			"intent_id": "INT-1",
			"file": "docs/a.md",
			"message": "outside owned scope"
		}`))
	})

	It("omits empty optional fields", func() {
		e := hooks.NewToolError("execute_command", hooks.ReasonMissingIntentID, "select an intent first")
		Expect(e.JSON()).NotTo(ContainSubstring(`"intent_id"`))
		Expect(e.JSON()).NotTo(ContainSubstring("file"))
	})
})
