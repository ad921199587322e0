package providers

import (
	"fmt"
	"sync"
)

// Registry 提供商注册表
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

// NewRegistry 创建新的注册表
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{
		defs: make(map[string]Definition),
	}
	for _, def := range defs {
		// 内置定义不会重复
		_ = r.Register(def)
	}
	return r
}

// Register 注册提供商
func (r *Registry) Register(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if def.ID == "" {
		return fmt.Errorf("provider id is required")
	}
	if _, exists := r.defs[def.ID]; exists {
		return fmt.Errorf("provider %s already registered", def.ID)
	}

	r.defs[def.ID] = def
	r.order = append(r.order, def.ID)
	return nil
}

// Get 获取提供商定义
func (r *Registry) Get(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[id]
	return def, ok
}

// Has 是否存在
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// DisplayName 返回显示名称，未知提供商返回 id 本身
func (r *Registry) DisplayName(id string) string {
	if def, ok := r.Get(id); ok {
		return def.Name
	}
	return id
}

// List 按注册顺序列出所有提供商
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.defs[id])
	}
	return defs
}

// IDs 按注册顺序列出提供商 id
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// DefaultRegistry 默认注册表
var DefaultRegistry = NewRegistry(Builtin()...)

// Get 从默认注册表获取
func Get(id string) (Definition, bool) {
	return DefaultRegistry.Get(id)
}

// List 列出默认注册表中的提供商
func List() []Definition {
	return DefaultRegistry.List()
}
