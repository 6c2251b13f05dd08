package services

import (
	"fmt"
	"strings"

	"github.com/Cyr-Ch/filmmaker/application/ports/inbound"
	"github.com/Cyr-Ch/filmmaker/domain"
)

type styleResolver struct {
	names  []string
	byName map[string]domain.StyleDescriptor
}

func NewStyleResolver(styles []domain.StyleDescriptor) inbound.StyleResolverPort {
	r := &styleResolver{
		names:  make([]string, 0, len(styles)),
		byName: make(map[string]domain.StyleDescriptor, len(styles)),
	}
	for _, style := range styles {
		if _, ok := r.byName[style.Name]; ok {
			continue
		}
		r.names = append(r.names, style.Name)
		r.byName[style.Name] = style
	}
	return r
}

func (r *styleResolver) Resolve(name string) domain.Result[domain.StyleDescriptor] {
	style, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return domain.Fail[domain.StyleDescriptor](domain.NewStageFailure(domain.StageResolvingStyle,
			fmt.Errorf("%w: %q", domain.ErrUnknownStyle, name)))
	}
	return domain.Ok(style)
}

func (r *styleResolver) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}
