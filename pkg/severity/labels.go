package severity

// SafeLabel is the only class that is not a distraction.
const SafeLabel = "safe_driving"

// UnknownLabel is reported for class indices outside Labels.
const UnknownLabel = "unknown"

// Labels is the classifier's output order, index => class name.
var Labels = [...]string{
	"safe_driving",
	"texting_right",
	"talking_phone_right",
	"texting_left",
	"talking_phone_left",
	"operating_radio",
	"drinking",
	"reaching_behind",
	"hair_makeup",
	"talking_passenger",
}

// NumClasses is the size of the network's output vector.
const NumClasses = len(Labels)

var table = map[string]Level{
	"safe_driving":        Low,
	"texting_right":       High,
	"talking_phone_right": Medium,
	"texting_left":        High,
	"talking_phone_left":  Medium,
	"operating_radio":     Medium,
	"drinking":            Medium,
	"reaching_behind":     High,
	"hair_makeup":         High,
	"talking_passenger":   Low,
}

// Label returns the class name for a network output index.
func Label(index int) string {
	if index < 0 || index >= len(Labels) {
		return UnknownLabel
	}
	return Labels[index]
}
