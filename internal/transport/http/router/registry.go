package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// A module implements any subset of these. PublicModule routes need no token,
// APIModule routes run behind Authenticate, AdminModule routes also behind RequireAdmin.
type PublicModule interface{ MountPublic(*gin.RouterGroup) }
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// Modules implementing this are mounted in ascending order; the default is 100.
type prioritizer interface{ Priority() int }

type Registry struct {
	public []PublicModule
	api    []APIModule
	admin  []AdminModule
}

// Register files mod under every interface it implements.
func (r *Registry) Register(mods ...any) {
	for _, mod := range mods {
		if m, ok := mod.(PublicModule); ok {
			r.public = append(r.public, m)
		}
		if m, ok := mod.(APIModule); ok {
			r.api = append(r.api, m)
		}
		if m, ok := mod.(AdminModule); ok {
			r.admin = append(r.admin, m)
		}
	}
}

func (r *Registry) Mount(public, api, admin *gin.RouterGroup) {
	for _, m := range byPriority(r.public) {
		m.MountPublic(public)
	}
	for _, m := range byPriority(r.api) {
		m.MountAPI(api)
	}
	for _, m := range byPriority(r.admin) {
		m.MountAdmin(admin)
	}
}

func byPriority[T any](mods []T) []T {
	out := append([]T(nil), mods...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
