package sceneio

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/scatter/pkg/errors"
)

// EncodeMsgpack encodes doc in msgpack form. The pipeline caches documents
// in this encoding.
func EncodeMsgpack(doc Document) ([]byte, error) {
	data, err := msgpack.Marshal(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}
	return data, nil
}

// DecodeMsgpack decodes a document produced by [EncodeMsgpack].
func DecodeMsgpack(data []byte) (Document, error) {
	var doc Document
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scene")
	}
	if err := doc.check(); err != nil {
		return Document{}, err
	}
	return doc, nil
}
