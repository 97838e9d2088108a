package tile

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/fenwick-studio/worldstore/ids"
)

const propSectionVersion uint16 = 1

// PropInstance is one placed prop: an asset reference plus a transform.
type PropInstance struct {
	InstanceID     ids.InstanceID
	AssetNamespace string
	AssetName      string
	Translation    [3]float32
	Rotation       [4]float32
	Scale          [3]float32
}

// Prop is the decoded PROP section: prop instances ordered ascending by
// InstanceID, the canonical order SortInstances puts them in.
type Prop struct {
	Instances []PropInstance
}

// EncodeProp serializes a Prop payload. Instances must already be sorted
// ascending by InstanceID, since EncodeProp does not sort; callers that
// build a Prop by hand should call SortInstances first, as storage.SaveTile
// does before encoding.
func EncodeProp(p Prop) ([]byte, error) {
	out := make([]byte, 0, 12+len(p.Instances)*48)
	out = append(out, le16(propSectionVersion)...)
	out = append(out, le16(0)...) // reserved
	out = append(out, le32(uint32(len(p.Instances)))...)
	out = append(out, le16(0)...) // reserved
	out = append(out, le16(0)...) // reserved
	for _, inst := range p.Instances {
		out = append(out, le64(uint64(inst.InstanceID))...)
		var err error
		out, err = writeString(out, inst.AssetNamespace)
		if err != nil {
			return nil, fmt.Errorf("encode PROP instance %d asset_namespace: %w", inst.InstanceID, err)
		}
		out, err = writeString(out, inst.AssetName)
		if err != nil {
			return nil, fmt.Errorf("encode PROP instance %d asset_name: %w", inst.InstanceID, err)
		}
		for _, v := range inst.Translation {
			out = append(out, le32(math.Float32bits(v))...)
		}
		for _, v := range inst.Rotation {
			out = append(out, le32(math.Float32bits(v))...)
		}
		for _, v := range inst.Scale {
			out = append(out, le32(math.Float32bits(v))...)
		}
	}
	return out, nil
}

// DecodeProp parses a PROP section payload.
func DecodeProp(b []byte) (Prop, error) {
	if len(b) < 12 {
		return Prop{}, fmt.Errorf("%w: PROP section is %d bytes, want >= 12", ErrDecodeFailure, len(b))
	}
	version := binary.LittleEndian.Uint16(b[0:2])
	if version != propSectionVersion {
		return Prop{}, fmt.Errorf("%w: PROP version %d, want %d", ErrDecodeFailure, version, propSectionVersion)
	}
	count := int(binary.LittleEndian.Uint32(b[4:8]))
	cursor := 12
	instances := make([]PropInstance, 0, count)
	for i := 0; i < count; i++ {
		if cursor+8 > len(b) {
			return Prop{}, fmt.Errorf("%w: PROP instance %d id truncated", ErrDecodeFailure, i)
		}
		instanceID := ids.InstanceID(binary.LittleEndian.Uint64(b[cursor : cursor+8]))
		cursor += 8

		namespace, n, err := readString(b, cursor)
		if err != nil {
			return Prop{}, fmt.Errorf("decode PROP instance %d asset_namespace: %w", instanceID, err)
		}
		cursor += n

		name, n, err := readString(b, cursor)
		if err != nil {
			return Prop{}, fmt.Errorf("decode PROP instance %d asset_name: %w", instanceID, err)
		}
		cursor += n

		if cursor+40 > len(b) {
			return Prop{}, fmt.Errorf("%w: PROP instance %d transform truncated", ErrDecodeFailure, instanceID)
		}
		var translation [3]float32
		var rotation [4]float32
		var scale [3]float32
		for j := range translation {
			translation[j] = math.Float32frombits(binary.LittleEndian.Uint32(b[cursor : cursor+4]))
			cursor += 4
		}
		for j := range rotation {
			rotation[j] = math.Float32frombits(binary.LittleEndian.Uint32(b[cursor : cursor+4]))
			cursor += 4
		}
		for j := range scale {
			scale[j] = math.Float32frombits(binary.LittleEndian.Uint32(b[cursor : cursor+4]))
			cursor += 4
		}

		instances = append(instances, PropInstance{
			InstanceID:     instanceID,
			AssetNamespace: namespace,
			AssetName:      name,
			Translation:    translation,
			Rotation:       rotation,
			Scale:          scale,
		})
	}

	if !sort.SliceIsSorted(instances, func(i, j int) bool {
		return instances[i].InstanceID < instances[j].InstanceID
	}) {
		return Prop{}, fmt.Errorf("%w: PROP instances are not sorted ascending by instance id", ErrDecodeFailure)
	}

	return Prop{Instances: instances}, nil
}

// SortInstances orders Instances ascending by InstanceID, the canonical
// on-disk order.
func (p *Prop) SortInstances() {
	sort.Slice(p.Instances, func(i, j int) bool {
		return p.Instances[i].InstanceID < p.Instances[j].InstanceID
	})
}
