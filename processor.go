package htmlinput

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/zoobzio/sentinel"
)

// Processor applies HTML rules declared in struct tags to the string fields
// of T. Use Receive for ingress, Check for values already in memory and
// Send for egress.
//
// Tags take the form `html.{rule}:"{arg}"`:
//
//	html.allowedTags:"p span[style]"   sanitize with a policy
//	html.displayLength:"22"            exact display length
//	html.displayMin:"10"               minimum display length
//	html.displayMax:"140,utf8"         maximum display length in UTF-8 bytes
//
// Tag arguments are parsed when the processor is built; a bad argument fails
// NewProcessor rather than a later validation. Processors are safe for
// concurrent use. SetMessages and SetEngine may be called at any time.
type Processor[T Cloner[T]] struct {
	codec Codec

	// Mutable configuration protected by mu
	mu       sync.RWMutex
	messages *Messages
	fields   []fieldPlan

	// Type metadata
	typeName string
}

// fieldPlan describes the rules for a single field.
type fieldPlan struct {
	index      []int  // reflect.Value.FieldByIndex access path
	name       string // dotted field path for errors and labels
	rules      []Rule // rules in registration order
	isBytes    bool   // true if field is []byte
	ptrIndices []int  // indices where pointer dereference is needed
	isSlice    bool   // true if field is []string
	isMap      bool   // true if field is map[K]string
}

// typePlans holds the field plans built for one type.
type typePlans struct {
	typeName string
	fields   []fieldPlan
}

// plansCache caches field plans by type.
var plansCache sync.Map

// NewProcessor creates a new Processor for type T, which must be a struct.
// Every html.* tag on T and its nested structs is parsed here.
func NewProcessor[T Cloner[T]](codec Codec) (*Processor[T], error) {
	plans, err := getOrBuildPlans[T]()
	if err != nil {
		return nil, err
	}

	p := &Processor[T]{
		codec:    codec,
		messages: DefaultMessages(),
		fields:   append([]fieldPlan(nil), plans.fields...),
		typeName: plans.typeName,
	}

	emitProcessorCreated(context.Background(), codec.ContentType(), plans.typeName, len(plans.fields))
	return p, nil
}

// SetMessages sets the message templates used to render failures.
// A nil m restores DefaultMessages.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor[T]) SetMessages(m *Messages) *Processor[T] {
	if m == nil {
		m = DefaultMessages()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = m
	return p
}

// SetEngine sets the sanitization engine for every rule that sanitizes.
// Returns the processor for chaining. Safe for concurrent use.
func (p *Processor[T]) SetEngine(e Engine) *Processor[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	fields := make([]fieldPlan, len(p.fields))
	for i, f := range p.fields {
		f.rules = NewSchema("", f.rules...).WithEngine(e).Rules()
		fields[i] = f
	}
	p.fields = fields
	return p
}

// getOrBuildPlans returns cached field plans for T, building them on first use.
func getOrBuildPlans[T Cloner[T]]() (*typePlans, error) {
	typ := reflect.TypeFor[T]()
	if cached, ok := plansCache.Load(typ); ok {
		return cached.(*typePlans), nil
	}
	if typ.Kind() != reflect.Struct {
		return nil, &ConfigError{Err: ErrInvalidTag, Value: typ.String()}
	}

	plans, err := buildFieldPlans[T]()
	if err != nil {
		return nil, err
	}
	actual, _ := plansCache.LoadOrStore(typ, plans)
	return actual.(*typePlans), nil
}

// buildFieldPlans creates field plans for type T by scanning struct tags.
func buildFieldPlans[T Cloner[T]]() (*typePlans, error) {
	spec := sentinel.Scan[T]()
	plans := &typePlans{
		typeName: spec.TypeName,
	}

	if err := buildFieldPlansRecursive(plans, spec, nil, nil, "", Rules()); err != nil {
		return nil, err
	}

	return plans, nil
}

// buildFieldPlansRecursive recursively processes fields and nested structs.
func buildFieldPlansRecursive(plans *typePlans, spec sentinel.Metadata, parentIndex, ptrIndices []int, namePrefix string, ruleNames []string) error {
	for _, field := range spec.Fields {
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)
		fullName := field.Name
		if namePrefix != "" {
			fullName = namePrefix + "." + field.Name
		}

		// Handle nested structs
		if field.Kind == sentinel.KindStruct {
			nestedSpec := scanNestedType(field.ReflectType, ruleNames)
			if nestedSpec != nil {
				if err := buildFieldPlansRecursive(plans, *nestedSpec, fullIndex, ptrIndices, fullName, ruleNames); err != nil {
					return err
				}
			}
			continue
		}

		// Handle pointer to struct
		if field.Kind == sentinel.KindPointer && field.ReflectType.Elem().Kind() == reflect.Struct {
			nestedSpec := scanNestedType(field.ReflectType.Elem(), ruleNames)
			if nestedSpec != nil {
				newPtrIndices := append(append([]int{}, ptrIndices...), len(fullIndex)-1)
				if err := buildFieldPlansRecursive(plans, *nestedSpec, fullIndex, newPtrIndices, fullName, ruleNames); err != nil {
					return err
				}
			}
			continue
		}

		rules, err := buildFieldRules(field.Tags, fullName, ruleNames)
		if err != nil {
			return err
		}
		if len(rules) == 0 {
			continue
		}

		// Check underlying kind for string, []byte, []string, or map[K]string fields
		rt := field.ReflectType
		isString := rt.Kind() == reflect.String
		isBytes := rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.Uint8
		isStringSlice := rt.Kind() == reflect.Slice && rt.Elem().Kind() == reflect.String
		isStringMap := rt.Kind() == reflect.Map && rt.Elem().Kind() == reflect.String

		if !isString && !isBytes && !isStringSlice && !isStringMap {
			return &ConfigError{Err: ErrInvalidTag, Rule: rules[0].Name(), Field: fullName, Value: rt.String()}
		}

		plans.fields = append(plans.fields, fieldPlan{
			index:      fullIndex,
			name:       fullName,
			rules:      rules,
			isBytes:    isBytes,
			ptrIndices: ptrIndices,
			isSlice:    isStringSlice,
			isMap:      isStringMap,
		})
	}

	return nil
}

// buildFieldRules builds the rules a field's tags declare, in registration order.
func buildFieldRules(tags map[string]string, fieldName string, ruleNames []string) ([]Rule, error) {
	var rules []Rule
	for _, name := range ruleNames {
		arg, ok := tags[TagPrefix+name]
		if !ok {
			continue
		}
		r, err := Build(name, arg)
		if err != nil {
			var ce *ConfigError
			if errors.As(err, &ce) {
				withField := *ce
				withField.Field = fieldName
				return nil, &withField
			}
			return nil, fmt.Errorf("field %s: %w", fieldName, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// scanNestedType scans a nested struct type and returns its metadata.
func scanNestedType(rt reflect.Type, ruleNames []string) *sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return &spec
	}

	if rt.Kind() != reflect.Struct {
		return nil
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseRuleTags(sf.Tag, ruleNames),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return &spec
}

// parseRuleTags extracts html.* rule tags from a struct tag.
func parseRuleTags(tag reflect.StructTag, ruleNames []string) map[string]string {
	tags := make(map[string]string)
	for _, name := range ruleNames {
		if val, ok := tag.Lookup(TagPrefix + name); ok {
			tags[TagPrefix+name] = val
		}
	}
	return tags
}

// Receive unmarshals data and applies every field rule.
// Use for data coming from external sources (API requests, form posts).
//
// When a display rule fails, the processed value is returned together with
// ValidationErrors listing every failure.
func (p *Processor[T]) Receive(ctx context.Context, data []byte) (*T, error) {
	start := time.Now()
	emitReceiveStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var sanitized, failed int
	defer func() {
		emitReceiveComplete(ctx, p.codec.ContentType(), p.typeName,
			len(data), time.Since(start), sanitized, failed, retErr)
	}()

	var obj T
	if err := p.codec.Unmarshal(data, &obj); err != nil {
		retErr = newCodecError(ErrUnmarshal, err)
		return nil, retErr
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var errs ValidationErrors
	sanitized, errs, retErr = p.apply(&obj)
	if retErr != nil {
		return nil, retErr
	}
	if failed = len(errs); failed > 0 {
		retErr = errs
		return &obj, retErr
	}
	return &obj, nil
}

// Check applies every field rule to a clone of obj and returns the clone.
// obj itself is never modified.
//
// When a display rule fails, the processed clone is returned together with
// ValidationErrors listing every failure.
func (p *Processor[T]) Check(ctx context.Context, obj *T) (*T, error) {
	start := time.Now()
	emitCheckStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var sanitized, failed int
	defer func() {
		emitCheckComplete(ctx, p.codec.ContentType(), p.typeName,
			time.Since(start), sanitized, failed, retErr)
	}()

	if obj == nil {
		return nil, nil
	}

	// Clone to avoid mutating original
	clone := (*obj).Clone()

	p.mu.RLock()
	defer p.mu.RUnlock()

	var errs ValidationErrors
	sanitized, errs, retErr = p.apply(&clone)
	if retErr != nil {
		return nil, retErr
	}
	if failed = len(errs); failed > 0 {
		retErr = errs
		return &clone, retErr
	}
	return &clone, nil
}

// Send applies every field rule to a clone of obj and marshals the result.
// Use for data going to external destinations (API responses, rendering).
// Nothing is marshaled when a display rule fails.
func (p *Processor[T]) Send(ctx context.Context, obj *T) ([]byte, error) {
	start := time.Now()
	emitSendStart(ctx, p.codec.ContentType(), p.typeName)

	var retErr error
	var retData []byte
	var sanitized, failed int
	defer func() {
		emitSendComplete(ctx, p.codec.ContentType(), p.typeName,
			len(retData), time.Since(start), sanitized, failed, retErr)
	}()

	if obj == nil {
		retData, retErr = p.marshal(nil)
		return retData, retErr
	}

	// Clone to avoid mutating original
	clone := (*obj).Clone()

	p.mu.RLock()
	defer p.mu.RUnlock()

	var errs ValidationErrors
	sanitized, errs, retErr = p.apply(&clone)
	if retErr != nil {
		return nil, retErr
	}
	if failed = len(errs); failed > 0 {
		retErr = errs
		return nil, retErr
	}

	retData, retErr = p.marshal(&clone)
	return retData, retErr
}

func (p *Processor[T]) marshal(v any) ([]byte, error) {
	data, err := p.codec.Marshal(v)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}

// apply runs field rules via reflection. It returns how many values the
// transforms changed and every display rule failure. Callers hold p.mu.
func (p *Processor[T]) apply(obj *T) (int, ValidationErrors, error) {
	rv := reflect.ValueOf(obj).Elem()

	var sanitized int
	var errs ValidationErrors

	run := func(rules []Rule, name, value string) (string, error) {
		out, fieldErrs, err := applyRules(rules, value)
		if err != nil {
			return value, fmt.Errorf("field %s: %w", name, err)
		}
		if out != value {
			sanitized++
		}
		for _, ve := range fieldErrs {
			ve.Field = name
			ve.Label = name
			ve.Message = p.messages.Render(ve)
			errs = append(errs, ve)
		}
		return out, nil
	}

	for i := range p.fields {
		plan := &p.fields[i]

		field, ok := p.getField(rv, *plan)
		if !ok {
			continue
		}

		// Handle slice of strings
		if plan.isSlice {
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				out, err := run(plan.rules, fmt.Sprintf("%s[%d]", plan.name, j), elem.String())
				if err != nil {
					return sanitized, errs, err
				}
				if elem.CanSet() {
					elem.SetString(out)
				}
			}
			continue
		}

		// Handle map of strings
		if plan.isMap {
			iter := field.MapRange()
			for iter.Next() {
				k, v := iter.Key(), iter.Value()
				out, err := run(plan.rules, fmt.Sprintf("%s[%v]", plan.name, k.Interface()), v.String())
				if err != nil {
					return sanitized, errs, err
				}
				field.SetMapIndex(k, reflect.ValueOf(out).Convert(v.Type()))
			}
			continue
		}

		// Handle scalar string or []byte
		if !field.CanSet() {
			continue
		}

		var value string
		if plan.isBytes {
			value = string(field.Bytes())
		} else {
			value = field.String()
		}

		out, err := run(plan.rules, plan.name, value)
		if err != nil {
			return sanitized, errs, err
		}
		if out == value {
			continue
		}
		if plan.isBytes {
			field.SetBytes([]byte(out))
		} else {
			field.SetString(out)
		}
	}

	return sanitized, errs, nil
}

// getField navigates a field path, dereferencing pointers as needed.
func (p *Processor[T]) getField(rv reflect.Value, plan fieldPlan) (reflect.Value, bool) {
	if len(plan.ptrIndices) == 0 {
		return rv.FieldByIndex(plan.index), true
	}

	current := rv
	ptrSet := make(map[int]bool, len(plan.ptrIndices))
	for _, idx := range plan.ptrIndices {
		ptrSet[idx] = true
	}

	for i, idx := range plan.index {
		current = current.Field(idx)

		if ptrSet[i] {
			if current.IsNil() {
				return reflect.Value{}, false
			}
			current = current.Elem()
		}
	}

	return current, true
}

// Fields returns the dotted paths of every field carrying html.* tags.
func (p *Processor[T]) Fields() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, len(p.fields))
	for i, f := range p.fields {
		names[i] = f.name
	}
	return names
}
