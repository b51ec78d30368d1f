package event

import (
	"encoding/json"
	"reflect"
	"sync"
)

var (
	registryOnce  sync.Once
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
)

// registerType maps a name to an EventType and its payload struct type
// payloadInstance should be a pointer to the payload struct, nil if the event has none
func registerType(name string, et EventType, payloadInstance any) {
	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

func initRegistry() {
	registryOnce.Do(func() {
		registerType("intensityChange", EventIntensityChange, &IntensityChangePayload{})
		registerType("phaseChange", EventPhaseChange, &PhaseChangePayload{})
		registerType("attackStarted", EventAttackStarted, &AttackPayload{})
		registerType("attackEnded", EventAttackEnded, &AttackPayload{})
		registerType("breakawayFormed", EventBreakawayFormed, &BreakawayPayload{})
		registerType("breakawayDissolved", EventBreakawayDissolved, &BreakawayPayload{})
		registerType("riderSanitized", EventRiderSanitized, &RiderSanitizedPayload{})
	})
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	initRegistry()
	et, ok := nameToType[name]
	return et, ok
}

// String returns the wire name of the event type
func (et EventType) String() string {
	initRegistry()
	if n, ok := typeToName[et]; ok {
		return n
	}
	return "unknown"
}

// MarshalJSON encodes the type by name
func (et EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(et.String())
}

// UnmarshalJSON decodes a type name
func (et *EventType) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	t, _ := GetEventType(name)
	*et = t
	return nil
}

// NewPayloadStruct returns a new pointer to a zero-value payload struct for the event type
// Returns nil if no payload is registered
func NewPayloadStruct(et EventType) any {
	initRegistry()
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}
