package inbound

import (
	"github.com/Cyr-Ch/filmmaker/domain"
)

type StyleResolverPort interface {
	Resolve(name string) domain.Result[domain.StyleDescriptor]
	Names() []string
}
