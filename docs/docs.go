package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Transit Analytics Pipeline",
    "description": "API for converting carrier tracking exports into transit performance reports",
    "version": "1.0"
  },
  "basePath": "/api/v1",
  "paths": {}
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
