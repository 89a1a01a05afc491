package registry

import (
	htmltemplate "html/template"
	"reflect"
	"testing"
	texttemplate "text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reloadedType is a distinct reflect.Type value describing the same type,
// the way a second copy of a package loaded by a host would.
type reloadedType struct {
	reflect.Type
}

func reloaded(t reflect.Type) ServiceID {
	return reloadedType{Type: t}
}

func TestIDOf(t *testing.T) {
	assert.Equal(t, reflect.TypeOf((*undoManager)(nil)).Elem(), IDOf[undoManager]())
	assert.Equal(t, reflect.TypeOf(&memoryUndo{}), IDOf[*memoryUndo]())
	assert.Equal(t, reflect.Interface, IDOf[undoManager]().Kind())
}

func TestIdentityComparer(t *testing.T) {
	cmp := IdentityComparer

	assert.True(t, cmp.Equal(undoID, IDOf[undoManager]()))
	assert.False(t, cmp.Equal(undoID, resolverID))
	assert.False(t, cmp.Equal(undoID, reloaded(undoID)))
	assert.False(t, cmp.Equal(undoID, nil))
	assert.True(t, cmp.Equal(nil, nil))
	assert.Equal(t, cmp.Hash(undoID), cmp.Hash(IDOf[undoManager]()))
}

func TestStructuralComparer(t *testing.T) {
	cmp := StructuralComparer

	assert.True(t, cmp.Equal(undoID, undoID))
	assert.True(t, cmp.Equal(undoID, reloaded(undoID)))
	assert.True(t, cmp.Equal(reloaded(undoID), undoID))
	assert.False(t, cmp.Equal(undoID, resolverID))
	assert.False(t, cmp.Equal(undoID, nil))
	assert.False(t, cmp.Equal(IDOf[*memoryUndo](), IDOf[memoryUndo]()))
	assert.Equal(t, cmp.Hash(undoID), cmp.Hash(reloaded(undoID)))
}

func TestStructuralComparer_UnnamedTypes(t *testing.T) {
	cmp := StructuralComparer

	assert.True(t, cmp.Equal(IDOf[[]string](), reloaded(IDOf[[]string]())))
	assert.False(t, cmp.Equal(IDOf[[]string](), IDOf[[]int]()))
	assert.False(t, cmp.Equal(IDOf[map[string]int](), IDOf[[]int]()))

	// text/template and html/template share the package name "template".
	assert.False(t, cmp.Equal(IDOf[*texttemplate.Template](), IDOf[*htmltemplate.Template]()))
	assert.False(t, cmp.Equal(IDOf[[]*texttemplate.Template](), IDOf[[]*htmltemplate.Template]()))
	assert.False(t, cmp.Equal(IDOf[map[string]texttemplate.FuncMap](), IDOf[map[string]htmltemplate.FuncMap]()))
	assert.False(t, cmp.Equal(IDOf[func(*texttemplate.Template) error](), IDOf[func(*htmltemplate.Template) error]()))
	assert.False(t, cmp.Equal(IDOf[chan *texttemplate.Template](), IDOf[chan *htmltemplate.Template]()))
	assert.False(t, cmp.Equal(IDOf[[2]*texttemplate.Template](), IDOf[[2]*htmltemplate.Template]()))
	assert.False(t, cmp.Equal(IDOf[struct{ T *texttemplate.Template }](), IDOf[struct{ T *htmltemplate.Template }]()))
	assert.NotEqual(t, cmp.Hash(IDOf[*texttemplate.Template]()), cmp.Hash(IDOf[*htmltemplate.Template]()))

	assert.False(t, cmp.Equal(IDOf[chan int](), IDOf[<-chan int]()))
	assert.False(t, cmp.Equal(IDOf[[2]int](), IDOf[[3]int]()))
	assert.False(t, cmp.Equal(IDOf[func(...int)](), IDOf[func([]int)]()))
	assert.True(t, cmp.Equal(IDOf[func(...int) error](), reloaded(IDOf[func(...int) error]())))
	assert.True(t, cmp.Equal(IDOf[*undoManager](), reloaded(IDOf[*undoManager]())))
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "*text/template.Template", qualifiedName(IDOf[*texttemplate.Template]()))
	assert.Equal(t, "*html/template.Template", qualifiedName(IDOf[*htmltemplate.Template]()))
	assert.Equal(t, "map[string][]int", qualifiedName(IDOf[map[string][]int]()))
	assert.Equal(t, "<-chan error", qualifiedName(IDOf[<-chan error]()))
	assert.Equal(t, "func(int, ...string) (bool)", qualifiedName(IDOf[func(int, ...string) bool]()))
}

func TestRegistry_StructuralComparerSameNamedPackages(t *testing.T) {
	r := New(WithComparer(StructuralComparer))
	htmlID := IDOf[*htmltemplate.Template]()
	textID := IDOf[*texttemplate.Template]()

	err := r.AddService(htmlID, texttemplate.New("x"))
	assert.True(t, IsInvalidServiceInstance(err))
	assert.Nil(t, r.GetService(htmlID))

	require.NoError(t, r.AddService(textID, texttemplate.New("text")))
	require.NoError(t, r.AddService(htmlID, htmltemplate.New("html")))

	_, ok := r.GetService(htmlID).(*htmltemplate.Template)
	assert.True(t, ok)
	_, ok = r.GetService(textID).(*texttemplate.Template)
	assert.True(t, ok)

	require.NoError(t, r.AddFactory(IDOf[[]*htmltemplate.Template](), func(c Container, id ServiceID) any {
		return []*texttemplate.Template{texttemplate.New("wrong")}
	}))
	assert.Nil(t, r.GetService(IDOf[[]*htmltemplate.Template]()))
}

func TestHashID(t *testing.T) {
	assert.Equal(t, uint64(0), hashID(nil))
	assert.NotEqual(t, hashID(undoID), hashID(resolverID))
}

func TestIsInstanceOf(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		id       ServiceID
		cmp      IDComparer
		expected bool
	}{
		{"implements interface", &memoryUndo{}, undoID, IdentityComparer, true},
		{"concrete type", &memoryUndo{}, IDOf[*memoryUndo](), IdentityComparer, true},
		{"value for pointer id", memoryUndo{}, IDOf[*memoryUndo](), IdentityComparer, false},
		{"wrong interface", staticResolver{}, undoID, IdentityComparer, false},
		{"foreign object", foreignHandle{}, undoID, IdentityComparer, true},
		{"reloaded concrete id structural", &memoryUndo{}, reloaded(IDOf[*memoryUndo]()), StructuralComparer, true},
		{"any accepts everything", 42, IDOf[any](), IdentityComparer, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isInstanceOf(tt.value, tt.id, tt.cmp))
		})
	}
}

func TestIsNil(t *testing.T) {
	var (
		ptr *memoryUndo
		fn  Factory
		m   map[string]int
		in  undoManager
	)

	assert.True(t, isNil(nil))
	assert.True(t, isNil(ptr))
	assert.True(t, isNil(fn))
	assert.True(t, isNil(m))
	assert.True(t, isNil(in))
	assert.False(t, isNil(0))
	assert.False(t, isNil(""))
	assert.False(t, isNil(&memoryUndo{}))
	assert.False(t, isNil(staticResolver{}))
}

func TestRegistry_StructuralComparer(t *testing.T) {
	r := New(WithComparer(StructuralComparer))
	undo := &memoryUndo{}

	err := r.AddService(reloaded(undoID), undo)
	require.NoError(t, err)

	assert.Same(t, undo, r.GetService(undoID))
	assert.True(t, r.Contains(undoID))

	err = r.AddService(undoID, &memoryUndo{})
	assert.True(t, IsServiceAlreadyExists(err))

	assert.Same(t, r, r.GetService(reloaded(IDOf[Container]())))
}

func TestRegistry_IdentityComparerKeepsReloadedApart(t *testing.T) {
	r := New()
	undo := &memoryUndo{}

	require.NoError(t, r.AddService(reloaded(undoID), undo))

	assert.Nil(t, r.GetService(undoID))
	assert.Same(t, undo, r.GetService(reloaded(undoID)))
	assert.Nil(t, r.GetService(reloaded(IDOf[Container]())))
}
