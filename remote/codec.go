package remote

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/gogpu/debugdraw"
)

// wireUpdate is the JSON form of a debugdraw.Update tagged with the
// sending session. Camera state has no representation here.
type wireUpdate struct {
	Session  uuid.UUID             `json:"session"`
	Seq      uint64                `json:"seq"`
	Full     bool                  `json:"full,omitempty"`
	Added    []wireCommand         `json:"added,omitempty"`
	Poses    []debugdraw.GroupPose `json:"poses,omitempty"`
	Released []debugdraw.GroupID   `json:"released,omitempty"`
}

// wireCommand carries one command as its type name and its fields.
type wireCommand struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func encodeUpdate(session uuid.UUID, u *debugdraw.Update) ([]byte, error) {
	w := wireUpdate{
		Session:  session,
		Seq:      u.Seq,
		Full:     u.Full,
		Added:    make([]wireCommand, len(u.Added)),
		Poses:    u.Poses,
		Released: u.Released,
	}
	for i, cmd := range u.Added {
		data, err := json.Marshal(cmd)
		if err != nil {
			return nil, fmt.Errorf("remote: encode %s: %w", cmd.Type(), err)
		}
		w.Added[i] = wireCommand{Type: cmd.Type().String(), Data: data}
	}
	return json.Marshal(&w)
}

func decodeUpdate(data []byte) (uuid.UUID, *debugdraw.Update, error) {
	var w wireUpdate
	if err := json.Unmarshal(data, &w); err != nil {
		return uuid.Nil, nil, fmt.Errorf("remote: decode update: %w", err)
	}
	u := &debugdraw.Update{
		Seq:      w.Seq,
		Full:     w.Full,
		Added:    make([]debugdraw.Command, len(w.Added)),
		Poses:    w.Poses,
		Released: w.Released,
	}
	for i, wc := range w.Added {
		cmd, err := decodeCommand(wc)
		if err != nil {
			return uuid.Nil, nil, err
		}
		u.Added[i] = cmd
	}
	return w.Session, u, nil
}

func decodeCommand(wc wireCommand) (debugdraw.Command, error) {
	typ, ok := debugdraw.ParseCommandType(wc.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, wc.Type)
	}
	cmd, err := decoders[typ](wc.Data)
	if err != nil {
		return nil, fmt.Errorf("remote: decode %s: %w", typ, err)
	}
	return cmd, nil
}

func decodeAs[T debugdraw.Command](data json.RawMessage) (debugdraw.Command, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

var decoders = map[debugdraw.CommandType]func(json.RawMessage) (debugdraw.Command, error){
	debugdraw.CmdLine:               decodeAs[debugdraw.LineCommand],
	debugdraw.CmdGradientLine:       decodeAs[debugdraw.GradientLineCommand],
	debugdraw.CmdRay:                decodeAs[debugdraw.RayCommand],
	debugdraw.CmdThickRay:           decodeAs[debugdraw.ThickRayCommand],
	debugdraw.CmdCylinder:           decodeAs[debugdraw.CylinderCommand],
	debugdraw.CmdPlane:              decodeAs[debugdraw.PlaneCommand],
	debugdraw.CmdTri:                decodeAs[debugdraw.TriCommand],
	debugdraw.CmdTriNormals:         decodeAs[debugdraw.TriNormalsCommand],
	debugdraw.CmdGradientTri:        decodeAs[debugdraw.GradientTriCommand],
	debugdraw.CmdGradientTriNormals: decodeAs[debugdraw.GradientTriNormalsCommand],
	debugdraw.CmdBound:              decodeAs[debugdraw.BoundCommand],
	debugdraw.CmdSphere:             decodeAs[debugdraw.SphereCommand],
	debugdraw.CmdCircle:             decodeAs[debugdraw.CircleCommand],
	debugdraw.CmdPoint:              decodeAs[debugdraw.PointCommand],
	debugdraw.CmdPointScale:         decodeAs[debugdraw.PointScaleCommand],
	debugdraw.CmdQuad:               decodeAs[debugdraw.QuadCommand],
	debugdraw.CmdArc:                decodeAs[debugdraw.ArcCommand],
	debugdraw.CmdThickArc:           decodeAs[debugdraw.ThickArcCommand],
	debugdraw.CmdText:               decodeAs[debugdraw.TextCommand],
	debugdraw.CmdPolygon:            decodeAs[debugdraw.PolygonCommand],
}
