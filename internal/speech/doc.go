// Package speech defines the voice output boundary.
//
// The Speaker interface models the external text-to-speech engine: Speak is
// safe without a prior Init. CommandSpeaker bridges to an external TTS
// executable; WriterSpeaker is the degraded and test channel.
package speech
