package wire

// PropertyID identifies an MQTT 5 property. Parsing and encoding the
// tag/length/value wire form lives in wire/v5; this package only holds
// the identifier space and the decoded value container.
type PropertyID byte

const (
	PropPayloadFormatIndicator    PropertyID = 0x01
	PropMessageExpiryInterval     PropertyID = 0x02
	PropContentType               PropertyID = 0x03
	PropResponseTopic             PropertyID = 0x08
	PropCorrelationData           PropertyID = 0x09
	PropSubscriptionIdentifier    PropertyID = 0x0B
	PropSessionExpiryInterval     PropertyID = 0x11
	PropAssignedClientIdentifier  PropertyID = 0x12
	PropServerKeepAlive           PropertyID = 0x13
	PropAuthenticationMethod      PropertyID = 0x15
	PropAuthenticationData        PropertyID = 0x16
	PropRequestProblemInformation PropertyID = 0x17
	PropWillDelayInterval         PropertyID = 0x18
	PropRequestResponseInformation PropertyID = 0x19
	PropResponseInformation       PropertyID = 0x1A
	PropServerReference           PropertyID = 0x1C
	PropReasonString              PropertyID = 0x1F
	PropReceiveMaximum            PropertyID = 0x21
	PropTopicAliasMaximum         PropertyID = 0x22
	PropTopicAlias                PropertyID = 0x23
	PropMaximumQoS                PropertyID = 0x24
	PropRetainAvailable           PropertyID = 0x25
	PropUserProperty              PropertyID = 0x26
	PropMaximumPacketSize         PropertyID = 0x27
	PropWildcardSubAvailable      PropertyID = 0x28
	PropSubscriptionIDAvailable   PropertyID = 0x29
	PropSharedSubAvailable        PropertyID = 0x2A
)

var propertyIDNames = map[PropertyID]string{
	PropPayloadFormatIndicator:     "PayloadFormatIndicator",
	PropMessageExpiryInterval:      "MessageExpiryInterval",
	PropContentType:                "ContentType",
	PropResponseTopic:              "ResponseTopic",
	PropCorrelationData:            "CorrelationData",
	PropSubscriptionIdentifier:     "SubscriptionIdentifier",
	PropSessionExpiryInterval:      "SessionExpiryInterval",
	PropAssignedClientIdentifier:   "AssignedClientIdentifier",
	PropServerKeepAlive:            "ServerKeepAlive",
	PropAuthenticationMethod:       "AuthenticationMethod",
	PropAuthenticationData:         "AuthenticationData",
	PropRequestProblemInformation:  "RequestProblemInformation",
	PropWillDelayInterval:          "WillDelayInterval",
	PropRequestResponseInformation: "RequestResponseInformation",
	PropResponseInformation:        "ResponseInformation",
	PropServerReference:            "ServerReference",
	PropReasonString:               "ReasonString",
	PropReceiveMaximum:             "ReceiveMaximum",
	PropTopicAliasMaximum:          "TopicAliasMaximum",
	PropTopicAlias:                 "TopicAlias",
	PropMaximumQoS:                 "MaximumQoS",
	PropRetainAvailable:            "RetainAvailable",
	PropUserProperty:               "UserProperty",
	PropMaximumPacketSize:          "MaximumPacketSize",
	PropWildcardSubAvailable:       "WildcardSubscriptionAvailable",
	PropSubscriptionIDAvailable:    "SubscriptionIdentifierAvailable",
	PropSharedSubAvailable:         "SharedSubscriptionAvailable",
}

func (id PropertyID) String() string {
	if name, ok := propertyIDNames[id]; ok {
		return name
	}
	return "UNKNOWN"
}

// PropertyAllowsMultiple reports whether id may legally appear more
// than once in a single Properties block. Only UserProperty and
// SubscriptionIdentifier do; the packet type is not considered.
func PropertyAllowsMultiple(id PropertyID) bool {
	return id == PropUserProperty || id == PropSubscriptionIdentifier
}

// UTF8Pair is a decoded MQTT 5 UTF-8 string pair, used for user
// properties.
type UTF8Pair struct {
	Key   string
	Value string
}

// Property is one decoded id/value entry. Exactly one of the typed
// fields is populated, selected by ID's underlying wire type.
type Property struct {
	ID     PropertyID
	Byte   byte
	Uint16 uint16
	Uint32 uint32
	VarInt uint32
	String string
	Pair   UTF8Pair
	Binary []byte
}

// Properties is an ordered, possibly-repeating set of decoded
// properties, mirroring the teacher's encoding.Properties container.
type Properties struct {
	Items []Property
}

// Get returns the first property with the given id.
func (p *Properties) Get(id PropertyID) (Property, bool) {
	for _, item := range p.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Property{}, false
}

// GetAll returns every property with the given id, in wire order.
// Used for UserProperty and SubscriptionIdentifier, which may repeat.
func (p *Properties) GetAll(id PropertyID) []Property {
	var out []Property
	for _, item := range p.Items {
		if item.ID == id {
			out = append(out, item)
		}
	}
	return out
}

// Add appends a property, even if id already allows only one instance;
// duplicate-rejection for single-valued ids is the v5 decoder's job.
func (p *Properties) Add(item Property) {
	p.Items = append(p.Items, item)
}
