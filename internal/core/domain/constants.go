package domain

import "errors"

// Methods recognized on the request topic.
const (
	MethodGetAll          = "getAll"
	MethodGetOne          = "getOne"
	MethodGetAllTimeslots = "getAllTimeslots"
	MethodGetTimeSlots    = "getTimeSlots"
)

// Result topics, relative to the configured root topic.
const (
	TopicOffices   = "dentists"
	TopicOffice    = "dentists/dentist"
	TopicTimeslots = "dentists/offices/timeslots"
	TopicErrorLog  = "log/error"
)

// QoSExactlyOnce is the delivery level used for every publish in this
// service. The broker may still redeliver across reconnects; consumers
// deduplicate via the error log entry id.
const QoSExactlyOnce byte = 2

// DegradedServiceNotice is the fixed fallback value a circuit breaker
// yields instead of a real result while it is open.
const DegradedServiceNotice = "Sorry, out of service right now"

var (
	ErrOfficeNotFound = errors.New("dentist office does not exist")
	ErrInvalidDate    = errors.New("invalid date, expected YYYY-MM-DD")
)
