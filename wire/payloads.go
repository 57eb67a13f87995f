package wire

// SubscriptionOption is one SUBSCRIBE topic-filter entry: the filter
// string plus its v5 subscription options (ignored fields default to
// zero under v3, which only carries the QoS bits).
type SubscriptionOption struct {
	TopicFilter       string
	QoS               QoS
	NoLocal           bool
	RetainAsPublished bool
	RetainHandling    byte
}

// ConnectPayload is CONNECT's payload: client identifier, optional
// will topic/message (with its own v5 will-properties block), and
// optional username/password.
type ConnectPayload struct {
	ClientID       string
	WillProperties Properties
	WillTopic      string
	WillPayload    []byte
	Username       string
	Password       []byte
}

// SubscribePayload is SUBSCRIBE's payload: one or more subscriptions.
type SubscribePayload struct {
	Subscriptions []SubscriptionOption
}

// SubAckPayload is SUBACK's payload: one reason/return code per
// requested subscription, in request order.
type SubAckPayload struct {
	ReasonCodes []ReasonCode
}

// UnsubscribePayload is UNSUBSCRIBE's payload: one or more topic
// filters to remove.
type UnsubscribePayload struct {
	TopicFilters []string
}

// UnsubAckPayload is UNSUBACK's payload. Under v3.1.1 it is absent
// (UNSUBACK has no payload); under v5 it carries one reason code per
// requested filter, mirroring SubAckPayload.
type UnsubAckPayload struct {
	ReasonCodes []ReasonCode
}

// PublishPayload is PUBLISH's application payload. Bytes is a borrowed
// view into the assembler's read buffer during ReadPayload and must be
// copied by the caller before the assembler is reused. The PUBLISH
// builder stores the slice passed to Payload as given, without copying.
type PublishPayload struct {
	Bytes []byte
}
