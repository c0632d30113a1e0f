package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

var conditionDecoders = map[ConditionType]func([]byte) (Condition, error){
	ConditionTouch:     decodeCondition[TouchCondition],
	ConditionTime:      decodeCondition[TimeCondition],
	ConditionPosition:  decodeCondition[PositionCondition],
	ConditionCollision: decodeCondition[CollisionCondition],
	ConditionAnimation: decodeCondition[AnimationCondition],
	ConditionFlag:      decodeCondition[FlagCondition],
	ConditionGameState: decodeCondition[GameStateCondition],
	ConditionCounter:   decodeCondition[CounterCondition],
	ConditionRandom:    decodeCondition[RandomCondition],
}

var actionDecoders = map[ActionType]func([]byte) (Action, error){
	ActionSuccess:         decodeAction[SuccessAction],
	ActionFailure:         decodeAction[FailureAction],
	ActionPlaySound:       decodeAction[PlaySoundAction],
	ActionMove:            decodeAction[MoveAction],
	ActionEffect:          decodeAction[EffectAction],
	ActionShow:            decodeAction[ShowAction],
	ActionHide:            decodeAction[HideAction],
	ActionSetFlag:         decodeAction[SetFlagAction],
	ActionToggleFlag:      decodeAction[ToggleFlagAction],
	ActionSwitchAnimation: decodeAction[SwitchAnimationAction],
	ActionCounter:         decodeAction[CounterAction],
	ActionRandom:          decodeAction[RandomAction],
}

// MarshalJSON writes the variant's fields plus its "type" discriminator.
func (c TriggerCondition) MarshalJSON() ([]byte, error) {
	if c.Condition == nil {
		return nil, errors.New("types: trigger condition has no variant")
	}
	if u, ok := c.Condition.(UnknownCondition); ok {
		return u.Raw, nil
	}
	return marshalTagged(string(c.Condition.ConditionType()), c.Condition)
}

// UnmarshalJSON decodes the variant named by "type". Unrecognized types are
// kept verbatim as UnknownCondition.
func (c *TriggerCondition) UnmarshalJSON(data []byte) error {
	tag, err := readTag(data)
	if err != nil {
		return fmt.Errorf("decoding condition: %w", err)
	}
	decode, ok := conditionDecoders[ConditionType(tag)]
	if !ok {
		c.Condition = UnknownCondition{Type: tag, Raw: append([]byte(nil), data...)}
		return nil
	}
	cond, err := decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s condition: %w", tag, err)
	}
	c.Condition = cond
	return nil
}

// MarshalJSON writes the variant's fields plus its "type" discriminator.
func (a GameAction) MarshalJSON() ([]byte, error) {
	if a.Action == nil {
		return nil, errors.New("types: game action has no variant")
	}
	if u, ok := a.Action.(UnknownAction); ok {
		return u.Raw, nil
	}
	return marshalTagged(string(a.Action.ActionType()), a.Action)
}

// UnmarshalJSON decodes the variant named by "type". Unrecognized types are
// kept verbatim as UnknownAction.
func (a *GameAction) UnmarshalJSON(data []byte) error {
	tag, err := readTag(data)
	if err != nil {
		return fmt.Errorf("decoding action: %w", err)
	}
	decode, ok := actionDecoders[ActionType(tag)]
	if !ok {
		a.Action = UnknownAction{Type: tag, Raw: append([]byte(nil), data...)}
		return nil
	}
	act, err := decode(data)
	if err != nil {
		return fmt.Errorf("decoding %s action: %w", tag, err)
	}
	a.Action = act
	return nil
}

func decodeCondition[T Condition](data []byte) (Condition, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeAction[T Action](data []byte) (Action, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func readTag(data []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", err
	}
	if head.Type == "" {
		return "", errors.New(`missing "type"`)
	}
	return head.Type, nil
}

// marshalTagged encodes v as a JSON object and adds a "type" key.
func marshalTagged(tag string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	t, err := json.Marshal(tag)
	if err != nil {
		return nil, err
	}
	fields["type"] = t
	return json.Marshal(fields)
}
