package renderer

import "fmt"

// MutedStateBinding is the name of the host function the init script calls
// to read the muted flag on every page load.
const MutedStateBinding = "__wwMutedState"

// ReloadScript reloads the current page.
const ReloadScript = "window.location.reload()"

// InitScript runs before page scripts on every navigation. It keeps media
// elements in line with the muted flag and denies camera, microphone and
// location requests.
const InitScript = `(function () {
  if (window.__ww) { return; }
  var state = { muted: true };
  function apply(el) {
    try { el.muted = state.muted; } catch (e) {}
  }
  function applyAll(root) {
    if (root && root.querySelectorAll) {
      root.querySelectorAll('video, audio').forEach(apply);
    }
  }
  window.__ww = {
    setMuted: function (muted) {
      state.muted = !!muted;
      applyAll(document);
    }
  };
  new MutationObserver(function (records) {
    records.forEach(function (r) {
      r.addedNodes.forEach(function (n) {
        if (n.tagName === 'VIDEO' || n.tagName === 'AUDIO') { apply(n); }
        applyAll(n);
      });
    });
  }).observe(document, { childList: true, subtree: true });
  document.addEventListener('play', function (e) { apply(e.target); }, true);
  if (typeof window.` + MutedStateBinding + ` === 'function') {
    window.` + MutedStateBinding + `().then(function (muted) { window.__ww.setMuted(muted); });
  }

  function denied() {
    return Promise.reject(new DOMException('Permission denied', 'NotAllowedError'));
  }
  if (navigator.mediaDevices) {
    navigator.mediaDevices.getUserMedia = denied;
    navigator.mediaDevices.getDisplayMedia = denied;
  }
  if (navigator.geolocation) {
    var refuse = function (ok, fail) {
      if (typeof fail === 'function') {
        fail({ code: 1, message: 'User denied Geolocation' });
      }
      return 0;
    };
    navigator.geolocation.getCurrentPosition = refuse;
    navigator.geolocation.watchPosition = refuse;
  }
})();`

// MuteScript applies muted to the current page.
func MuteScript(muted bool) string {
	return fmt.Sprintf("window.__ww && window.__ww.setMuted(%t);", muted)
}
