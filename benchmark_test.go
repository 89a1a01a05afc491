package registry

import (
	"testing"
)

// Benchmark service registration.
func BenchmarkAddService(b *testing.B) {
	undo := &memoryUndo{}

	for i := 0; i < b.N; i++ {
		r := New()
		_ = r.AddService(undoID, undo)
	}
}

func BenchmarkAddFactory(b *testing.B) {
	for i := 0; i < b.N; i++ {
		r := New()
		_ = r.AddFactory(undoID, func(c Container, id ServiceID) any {
			return &memoryUndo{}
		})
	}
}

// Benchmark service resolution.
func BenchmarkGetService_Local(b *testing.B) {
	r := New()
	_ = r.AddService(undoID, &memoryUndo{})

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = r.GetService(undoID)
	}
}

func BenchmarkGetService_Default(b *testing.B) {
	r := New()

	for i := 0; i < b.N; i++ {
		_ = r.GetService(containerID)
	}
}

func BenchmarkGetService_Structural(b *testing.B) {
	r := New(WithComparer(StructuralComparer))
	_ = r.AddService(undoID, &memoryUndo{})

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = r.GetService(undoID)
	}
}

func BenchmarkGetService_DeepParent(b *testing.B) {
	root := New()
	_ = root.AddService(undoID, &memoryUndo{})

	leaf := root
	for i := 0; i < 8; i++ {
		leaf = leaf.NewChild()
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = leaf.GetService(undoID)
	}
}

func BenchmarkGetService_Miss(b *testing.B) {
	r := New()

	for i := 0; i < b.N; i++ {
		_ = r.GetService(undoID)
	}
}

func BenchmarkResolve_Typed(b *testing.B) {
	r := New()
	_ = Add[undoManager](r, &memoryUndo{})

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = Resolve[undoManager](r)
	}
}

func BenchmarkDispose(b *testing.B) {
	for i := 0; i < b.N; i++ {
		r := New()
		_ = r.AddService(undoID, &memoryUndo{})
		_ = r.AddService(resolverID, staticResolver{})
		_ = r.Dispose()
	}
}
