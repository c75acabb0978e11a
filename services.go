package thicket

// Service is a per-frame subsystem ticked by Scene.Update before rendering.
type Service interface {
	Update(dt float64)
}

// Services ticks registered services in registration order.
type Services struct {
	list []Service
}

// Add registers s. Nil services are ignored.
func (c *Services) Add(s Service) {
	if isNilValue(s) {
		return
	}
	c.list = append(c.list, s)
}

// Remove unregisters the first occurrence of s. No-op if absent.
func (c *Services) Remove(s Service) {
	for i, v := range c.list {
		if v == s {
			c.list = append(c.list[:i], c.list[i+1:]...)
			return
		}
	}
}

// All returns the registered services. The slice must not be mutated.
func (c *Services) All() []Service {
	return c.list
}

// Len returns the number of registered services.
func (c *Services) Len() int {
	return len(c.list)
}

// Update ticks every service with dt seconds.
func (c *Services) Update(dt float64) {
	for _, s := range c.list {
		s.Update(dt)
	}
}

// Find returns the first registered service of type T.
func Find[T Service](c *Services) (T, bool) {
	for _, s := range c.list {
		if typed, ok := s.(T); ok {
			return typed, true
		}
	}
	var zero T
	return zero, false
}
