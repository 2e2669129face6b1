package htmlinput

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for processor events.
var (
	SignalProcessorCreated = capitan.NewSignal("htmlinput.processor.created", "Processor instantiated")
	SignalReceiveStart     = capitan.NewSignal("htmlinput.receive.start", "Receive operation beginning")
	SignalReceiveComplete  = capitan.NewSignal("htmlinput.receive.complete", "Receive operation finished")
	SignalCheckStart       = capitan.NewSignal("htmlinput.check.start", "Check operation beginning")
	SignalCheckComplete    = capitan.NewSignal("htmlinput.check.complete", "Check operation finished")
	SignalSendStart        = capitan.NewSignal("htmlinput.send.start", "Send operation beginning")
	SignalSendComplete     = capitan.NewSignal("htmlinput.send.complete", "Send operation finished")
)

// Keys for typed event data.
var (
	KeyContentType    = capitan.NewStringKey("content_type")
	KeyTypeName       = capitan.NewStringKey("type_name")
	KeyFieldCount     = capitan.NewIntKey("field_count")
	KeySize           = capitan.NewIntKey("size")
	KeyDuration       = capitan.NewDurationKey("duration")
	KeyError          = capitan.NewErrorKey("error")
	KeySanitizedCount = capitan.NewIntKey("sanitized_count")
	KeyFailedCount    = capitan.NewIntKey("failed_count")
)

// emitProcessorCreated emits an event when a processor is created.
func emitProcessorCreated(ctx context.Context, contentType, typeName string, fields int) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	)
}

// emitReceiveStart emits an event when receive begins.
func emitReceiveStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalReceiveStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitReceiveComplete emits an event when receive finishes.
func emitReceiveComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, sanitized, failed int, err error) {
	fields := completeFields(contentType, typeName, size, duration, sanitized, failed)
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalReceiveComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalReceiveComplete, fields...)
	}
}

// emitCheckStart emits an event when check begins.
func emitCheckStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalCheckStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitCheckComplete emits an event when check finishes.
func emitCheckComplete(ctx context.Context, contentType, typeName string, duration time.Duration, sanitized, failed int, err error) {
	fields := completeFields(contentType, typeName, 0, duration, sanitized, failed)
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalCheckComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalCheckComplete, fields...)
	}
}

// emitSendStart emits an event when send begins.
func emitSendStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalSendStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitSendComplete emits an event when send finishes.
func emitSendComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, sanitized, failed int, err error) {
	fields := completeFields(contentType, typeName, size, duration, sanitized, failed)
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSendComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSendComplete, fields...)
	}
}

func completeFields(contentType, typeName string, size int, duration time.Duration, sanitized, failed int) []capitan.Field {
	return []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeySanitizedCount.Field(sanitized),
		KeyFailedCount.Field(failed),
	}
}
