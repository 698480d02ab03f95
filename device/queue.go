package device

import "github.com/pkg/errors"

// QueueFlags mirrors VkQueueFlags.
type QueueFlags uint32

// Queue capability bits
const (
	QueueGraphicsBit      QueueFlags = 0x1
	QueueComputeBit       QueueFlags = 0x2
	QueueTransferBit      QueueFlags = 0x4
	QueueSparseBindingBit QueueFlags = 0x8
)

// ErrNoGraphicsQueue is returned when no queue family can run graphics work.
var ErrNoGraphicsQueue = errors.New("no queue family with graphics capabilities")

// QueueFamily is a group of queues sharing one capability set.
type QueueFamily struct {
	Flags QueueFlags
	Count uint32
}

// SupportsGraphics reports whether the family has graphics queues to hand out.
func (q QueueFamily) SupportsGraphics() bool {
	return q.Count > 0 && q.Flags&QueueGraphicsBit != 0
}

// SelectGraphicsQueueFamily returns the index of the first family that
// supports graphics. Families are not ranked.
func SelectGraphicsQueueFamily(families []QueueFamily) (uint32, error) {
	for i, family := range families {
		if family.SupportsGraphics() {
			return uint32(i), nil
		}
	}
	return 0, ErrNoGraphicsQueue
}
