// Package cropdoctor diagnoses crop disease from a photo.
//
// A diagnosis makes one or two model calls:
//
//   - a vision call that both validates the image (is it a plant?) and
//     ranks disease candidates, guided by a reference list drawn from the
//     disease knowledge base;
//   - when the top candidate is not in the knowledge base, a text call for
//     a treatment plan. Known diseases use the verified KB treatment and
//     skip the second call.
//
// Non-plant images and healthy plants return after the first call.
package cropdoctor
