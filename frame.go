package debugdraw

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Sink receives every frame produced by Context.EndFrame.
// Send must not block the caller for long; network sinks queue internally.
type Sink interface {
	Send(f *Frame) error
}

// Update is the transport-agnostic payload describing how a frame differs
// from the previous one. It never contains camera state.
type Update struct {
	// Seq numbers frames of one context, starting at 1.
	Seq uint64
	// Full marks a self-contained update: the receiver drops everything it
	// holds before applying it.
	Full bool
	// Added holds the commands emitted since the previous frame (all
	// commands of the frame when Full).
	Added []Command
	// Poses holds groups created or re-posed since the previous frame
	// (all live groups when Full).
	Poses []GroupPose
	// Released lists groups released since the previous frame.
	Released []GroupID
}

// Frame is an immutable snapshot of the command stream and the draw
// group poses at the end of a frame. It is safe to share between
// goroutines.
type Frame struct {
	seq      uint64
	commands []Command
	groups   map[GroupID]mgl32.Mat4
	update   Update

	// cylinderSegments is the side count for cylinders; 0 uses the default.
	cylinderSegments uint32
}

// Seq returns the frame number.
func (f *Frame) Seq() uint64 {
	return f.seq
}

// Commands returns the commands to render, in emission order.
// The slice must not be modified.
func (f *Frame) Commands() []Command {
	return f.commands
}

// GroupPose returns the base pose a draw group had when the frame ended.
func (f *Frame) GroupPose(id GroupID) (mgl32.Mat4, bool) {
	m, ok := f.groups[id]
	return m, ok
}

// Groups returns the number of live draw groups in the frame.
func (f *Frame) Groups() int {
	return len(f.groups)
}

// WorldTransform returns Header.Pose · group pose, the matrix that maps a
// command's local geometry to world space. It reports false when the
// command names a group the frame does not know.
func (f *Frame) WorldTransform(h Header) (mgl32.Mat4, bool) {
	if h.Group == NoGroup {
		return h.Pose, true
	}
	g, ok := f.groups[h.Group]
	if !ok {
		return mgl32.Mat4{}, false
	}
	return h.Pose.Mul4(g), true
}

// Update returns the delta from the previous frame of the same context.
func (f *Frame) Update() *Update {
	u := f.update
	return &u
}

// Snapshot returns a full update reproducing this frame on an empty
// receiver.
func (f *Frame) Snapshot() *Update {
	poses := make([]GroupPose, 0, len(f.groups))
	for id, m := range f.groups {
		poses = append(poses, GroupPose{ID: id, Pose: m})
	}
	sortGroupPoses(poses)
	return &Update{
		Seq:   f.seq,
		Full:  true,
		Added: f.commands,
		Poses: poses,
	}
}

// String summarizes the frame for logs.
func (f *Frame) String() string {
	return fmt.Sprintf("frame %d: %d commands, %d groups", f.seq, len(f.commands), len(f.groups))
}

// Replica rebuilds frames from a stream of updates, typically on the
// viewer side of a remote connection. Re-posing a group costs one
// GroupPose entry regardless of how much geometry it holds.
//
// Replica is not safe for concurrent use.
type Replica struct {
	seq      uint64
	synced   bool
	retained []Command
	groups   map[GroupID]mgl32.Mat4
}

// NewReplica returns a replica that waits for a full update.
func NewReplica() *Replica {
	return &Replica{groups: make(map[GroupID]mgl32.Mat4)}
}

// Seq returns the sequence number of the last applied update.
func (r *Replica) Seq() uint64 {
	return r.seq
}

// Apply applies u and returns the resulting frame. A delta update must
// directly follow the previously applied update; otherwise ErrOutOfSync
// is returned and the replica is unchanged.
func (r *Replica) Apply(u *Update) (*Frame, error) {
	if !u.Full && (!r.synced || u.Seq != r.seq+1) {
		return nil, fmt.Errorf("%w: got %d after %d", ErrOutOfSync, u.Seq, r.seq)
	}
	if u.Full {
		r.retained = r.retained[:0]
		r.groups = make(map[GroupID]mgl32.Mat4, len(u.Poses))
	}

	for _, id := range u.Released {
		delete(r.groups, id)
	}
	if len(u.Released) > 0 {
		r.retained = dropGroups(r.retained, u.Released)
	}
	for _, gp := range u.Poses {
		r.groups[gp.ID] = gp.Pose
	}

	commands := make([]Command, 0, len(r.retained)+len(u.Added))
	commands = append(commands, r.retained...)
	commands = append(commands, u.Added...)
	for _, cmd := range u.Added {
		if cmd.Head().Group != NoGroup {
			r.retained = append(r.retained, cmd)
		}
	}

	groups := make(map[GroupID]mgl32.Mat4, len(r.groups))
	for id, m := range r.groups {
		groups[id] = m
	}

	r.seq = u.Seq
	r.synced = true
	return &Frame{seq: u.Seq, commands: commands, groups: groups, update: *u}, nil
}

// dropGroups removes, in place, the commands attributed to any of ids.
func dropGroups(cmds []Command, ids []GroupID) []Command {
	gone := make(map[GroupID]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}
	kept := cmds[:0]
	for _, cmd := range cmds {
		if _, drop := gone[cmd.Head().Group]; !drop {
			kept = append(kept, cmd)
		}
	}
	clear(cmds[len(kept):])
	return kept
}

func sortGroupPoses(p []GroupPose) {
	slices.SortFunc(p, func(a, b GroupPose) int { return cmp.Compare(a.ID, b.ID) })
}
