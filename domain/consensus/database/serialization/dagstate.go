package serialization

import (
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	dagStateFieldTopHeight           protowire.Number = 1
	dagStateFieldTopTopoHeight       protowire.Number = 2
	dagStateFieldHasStableHeight     protowire.Number = 3
	dagStateFieldStableHeight        protowire.Number = 4
	dagStateFieldHasStableTopoHeight protowire.Number = 5
	dagStateFieldStableTopoHeight    protowire.Number = 6
)

// SerializeDAGState serializes the DAG state record
func SerializeDAGState(state *externalapi.DAGState) []byte {
	var b []byte
	b = appendUint64(b, dagStateFieldTopHeight, state.TopHeight)
	b = appendUint64(b, dagStateFieldTopTopoHeight, state.TopTopoHeight)
	b = appendBool(b, dagStateFieldHasStableHeight, state.HasStableHeight)
	b = appendUint64(b, dagStateFieldStableHeight, state.StableHeight)
	b = appendBool(b, dagStateFieldHasStableTopoHeight, state.HasStableTopoHeight)
	b = appendUint64(b, dagStateFieldStableTopoHeight, state.StableTopoHeight)
	return b
}

// DeserializeDAGState deserializes a DAG state written by SerializeDAGState
func DeserializeDAGState(stateBytes []byte) (*externalapi.DAGState, error) {
	state := &externalapi.DAGState{}
	err := consumeMessage(stateBytes, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool, error) {
		switch num {
		case dagStateFieldTopHeight:
			n, err := consumeUint64(typ, b, &state.TopHeight)
			return n, true, err
		case dagStateFieldTopTopoHeight:
			n, err := consumeUint64(typ, b, &state.TopTopoHeight)
			return n, true, err
		case dagStateFieldHasStableHeight:
			n, err := consumeBool(typ, b, &state.HasStableHeight)
			return n, true, err
		case dagStateFieldStableHeight:
			n, err := consumeUint64(typ, b, &state.StableHeight)
			return n, true, err
		case dagStateFieldHasStableTopoHeight:
			n, err := consumeBool(typ, b, &state.HasStableTopoHeight)
			return n, true, err
		case dagStateFieldStableTopoHeight:
			n, err := consumeUint64(typ, b, &state.StableTopoHeight)
			return n, true, err
		}
		return 0, false, nil
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}
