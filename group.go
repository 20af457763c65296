package debugdraw

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// GroupID identifies a draw group within one context.
type GroupID int32

// NoGroup marks commands emitted while no draw group was active.
const NoGroup GroupID = -1

// GroupPose pairs a draw group with its base pose.
type GroupPose struct {
	ID   GroupID
	Pose mgl32.Mat4
}

// DrawGroupRegistry allocates draw groups and stores their base poses.
//
// Ids start at 0, increase by one per allocation and are never reused.
// Revising a pose is a map update: commands attributed to the group are
// not touched.
type DrawGroupRegistry struct {
	next   GroupID
	groups map[GroupID]mgl32.Mat4

	// Changes since the last takeChanges call.
	dirty    map[GroupID]struct{}
	released []GroupID
}

// NewDrawGroupRegistry creates an empty registry.
func NewDrawGroupRegistry() *DrawGroupRegistry {
	return &DrawGroupRegistry{
		groups: make(map[GroupID]mgl32.Mat4),
		dirty:  make(map[GroupID]struct{}),
	}
}

// Allocate creates a group with the given base pose. It reports false once
// the id space is exhausted.
func (r *DrawGroupRegistry) Allocate(pose mgl32.Mat4) (GroupID, bool) {
	if r.next == math.MaxInt32 {
		return NoGroup, false
	}
	id := r.next
	r.next++
	r.groups[id] = pose
	r.dirty[id] = struct{}{}
	return id, true
}

// SetPose revises the base pose of a live group.
func (r *DrawGroupRegistry) SetPose(id GroupID, pose mgl32.Mat4) bool {
	if _, ok := r.groups[id]; !ok {
		return false
	}
	r.groups[id] = pose
	r.dirty[id] = struct{}{}
	return true
}

// Pose returns the base pose of a live group.
func (r *DrawGroupRegistry) Pose(id GroupID) (mgl32.Mat4, bool) {
	m, ok := r.groups[id]
	return m, ok
}

// Contains reports whether id is a live group.
func (r *DrawGroupRegistry) Contains(id GroupID) bool {
	_, ok := r.groups[id]
	return ok
}

// Release frees a live group. Its id is never handed out again.
func (r *DrawGroupRegistry) Release(id GroupID) bool {
	if _, ok := r.groups[id]; !ok {
		return false
	}
	delete(r.groups, id)
	delete(r.dirty, id)
	r.released = append(r.released, id)
	return true
}

// Len returns the number of live groups.
func (r *DrawGroupRegistry) Len() int {
	return len(r.groups)
}

// IDs returns the live group ids in ascending order.
func (r *DrawGroupRegistry) IDs() []GroupID {
	ids := make([]GroupID, 0, len(r.groups))
	for id := range r.groups {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Reset releases every group. The id counter keeps counting.
func (r *DrawGroupRegistry) Reset() {
	for _, id := range r.IDs() {
		r.Release(id)
	}
}

// snapshot copies the live poses.
func (r *DrawGroupRegistry) snapshot() map[GroupID]mgl32.Mat4 {
	m := make(map[GroupID]mgl32.Mat4, len(r.groups))
	for id, pose := range r.groups {
		m[id] = pose
	}
	return m
}

// all returns every live group pose in id order.
func (r *DrawGroupRegistry) all() []GroupPose {
	ids := r.IDs()
	out := make([]GroupPose, len(ids))
	for i, id := range ids {
		out[i] = GroupPose{ID: id, Pose: r.groups[id]}
	}
	return out
}

// takeChanges returns the groups created or re-posed and the groups
// released since the previous call, then clears the change set.
func (r *DrawGroupRegistry) takeChanges() ([]GroupPose, []GroupID) {
	poses := make([]GroupPose, 0, len(r.dirty))
	for id := range r.dirty {
		poses = append(poses, GroupPose{ID: id, Pose: r.groups[id]})
	}
	sortGroupPoses(poses)
	released := r.released
	r.dirty = make(map[GroupID]struct{})
	r.released = nil
	return poses, released
}
