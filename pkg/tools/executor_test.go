package tools_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/reins/pkg/hooks"
	"github.com/papercomputeco/reins/pkg/task"
	"github.com/papercomputeco/reins/pkg/tools"
)

var _ = Describe("Executor", func() {
	var (
		tmpDir   string
		registry *tools.Registry
		hookReg  *hooks.Registry
		executor *tools.Executor
		tsk      *task.Task
		ctx      context.Context
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "executor-test-*")
		Expect(err).NotTo(HaveOccurred())
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		registry = tools.NewRegistry()
		hookReg = hooks.NewRegistry(nil)
		executor = tools.NewExecutor(registry, hookReg, nil)
		tsk = task.New("t-1", tmpDir, "")
		ctx = context.Background()
	})

	AfterEach(func() {
		tsk.Close()
		os.RemoveAll(tmpDir)
	})

	It("fails fast on unknown tools", func() {
		result := executor.Run(ctx, tsk, "missing", nil)
		Expect(result.Err).To(MatchError(tools.ErrToolNotFound))
	})

	It("executes a registered tool and runs post-hooks", func() {
		registry.MustRegister(noopTool("alpha", tools.Safe))

		post := &countingPost{}
		hookReg.RegisterPost(post)

		result := executor.Run(ctx, tsk, "alpha", nil)
		Expect(result.Err).NotTo(HaveOccurred())
		Expect(post.calls).To(Equal(1))
	})

	It("skips the tool body and post-hooks when a pre-hook denies", func() {
		executed := false
		registry.MustRegister(&tools.Tool{
			Name:        "guarded",
			Description: "test tool",
			Capability:  tools.Destructive,
			Execute: func(_ context.Context, _ *task.Task, _ map[string]any) (string, error) {
				executed = true
				return "", nil
			},
		})

		hookReg.RegisterPre(&denyingPre{})
		post := &countingPost{}
		hookReg.RegisterPost(post)

		result := executor.Run(ctx, tsk, "guarded", nil)
		Expect(result.IsDenied()).To(BeTrue())
		Expect(executed).To(BeFalse())
		Expect(post.calls).To(BeZero())
	})

	It("skips post-hooks when the tool body fails", func() {
		registry.MustRegister(&tools.Tool{
			Name:        "broken",
			Description: "test tool",
			Capability:  tools.Safe,
			Execute: func(_ context.Context, _ *task.Task, _ map[string]any) (string, error) {
				return "", errors.New("boom")
			},
		})
		post := &countingPost{}
		hookReg.RegisterPost(post)

		result := executor.Run(ctx, tsk, "broken", nil)
		Expect(result.Err).To(HaveOccurred())
		Expect(post.calls).To(BeZero())
	})

	It("converts tool-body policy errors into denials", func() {
		registry.MustRegister(&tools.Tool{
			Name:        "stale",
			Description: "test tool",
			Capability:  tools.Safe,
			Execute: func(_ context.Context, _ *task.Task, _ map[string]any) (string, error) {
				return "", hooks.NewToolError("stale", hooks.ReasonStaleFile, "re-read first")
			},
		})

		result := executor.Run(ctx, tsk, "stale", nil)
		Expect(result.Err).NotTo(HaveOccurred())
		Expect(result.IsDenied()).To(BeTrue())
		Expect(result.Denied.Reason).To(Equal(hooks.ReasonStaleFile))
	})
})

var _ = Describe("File tools", func() {
	var (
		tmpDir   string
		executor *tools.Executor
		tsk      *task.Task
		ctx      context.Context
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "fileops-test-*")
		Expect(err).NotTo(HaveOccurred())
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		registry := tools.NewRegistry()
		registry.MustRegister(tools.ReadFileTool())
		registry.MustRegister(tools.WriteFileTool())
		executor = tools.NewExecutor(registry, hooks.NewRegistry(nil), nil)
		tsk = task.New("t-1", tmpDir, "")
		ctx = context.Background()
	})

	AfterEach(func() {
		tsk.Close()
		os.RemoveAll(tmpDir)
	})

	It("requires a path to read", func() {
		result := executor.Run(ctx, tsk, tools.ToolReadFile, nil)
		Expect(result.Err).To(HaveOccurred())
	})

	It("requires path and content to write", func() {
		Expect(executor.Run(ctx, tsk, tools.ToolWriteFile, map[string]any{
			tools.ParamContent: "x",
		}).Err).To(HaveOccurred())
		Expect(executor.Run(ctx, tsk, tools.ToolWriteFile, map[string]any{
			tools.ParamPath: "a.txt",
		}).Err).To(HaveOccurred())
	})

	It("creates parent directories on write", func() {
		result := executor.Run(ctx, tsk, tools.ToolWriteFile, map[string]any{
			tools.ParamPath:    "deep/nested/dir/a.txt",
			tools.ParamContent: "x",
		})
		Expect(result.Err).NotTo(HaveOccurred())

		data, err := os.ReadFile(filepath.Join(tmpDir, "deep/nested/dir/a.txt"))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("x"))
	})

	It("arms the optimistic lock on write and trips it on out-of-band modification", func() {
		Expect(executor.Run(ctx, tsk, tools.ToolWriteFile, map[string]any{
			tools.ParamPath:    "a.txt",
			tools.ParamContent: "v1",
		}).Err).NotTo(HaveOccurred())

		// The write stored the fingerprint, so an immediate rewrite passes.
		rewriteResult := executor.Run(ctx, tsk, tools.ToolWriteFile, map[string]any{
			tools.ParamPath:    "a.txt",
			tools.ParamContent: "v2",
		})
		Expect(rewriteResult.IsDenied()).To(BeFalse())

		// Out-of-band modification now trips it.
		Expect(os.WriteFile(filepath.Join(tmpDir, "a.txt"), []byte("external"), 0o644)).To(Succeed())
		result := executor.Run(ctx, tsk, tools.ToolWriteFile, map[string]any{
			tools.ParamPath:    "a.txt",
			tools.ParamContent: "v3",
		})
		Expect(result.IsDenied()).To(BeTrue())
		Expect(result.Denied.Reason).To(Equal(hooks.ReasonStaleFile))
	})
})

type countingPost struct {
	calls int
}

func (p *countingPost) ID() string { return "counting" }

func (p *countingPost) Post(_ context.Context, _ *hooks.Invocation, _ string) error {
	p.calls++
	return nil
}

type denyingPre struct{}

func (p *denyingPre) ID() string { return "denying" }

func (p *denyingPre) Pre(_ context.Context, inv *hooks.Invocation) (hooks.PreResult, error) {
	return hooks.Blocked(hooks.NewToolError(inv.Tool, hooks.ReasonUserRejected, "denied")), nil
}
